// Package armazenamento implementa o backend de persistência em nuvem do
// cadastro: uma coleção de documentos no DynamoDB com o WhatsApp como chave
// de partição, o que torna a unicidade do número uma garantia do próprio
// store.
package armazenamento

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/salvo-app/api-cadastro/internal/cadastro"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// registroDynamo é o documento gravado na tabela de cadastros.
type registroDynamo struct {
	Whatsapp    string   `dynamodbav:"whatsapp"`
	ID          string   `dynamodbav:"id"`
	Nome        string   `dynamodbav:"nome"`
	Categoria   string   `dynamodbav:"categoria"`
	Email       string   `dynamodbav:"email"`
	CNPJ        string   `dynamodbav:"cnpj,omitempty"`
	CEP         string   `dynamodbav:"cep"`
	Endereco    string   `dynamodbav:"endereco"`
	Complemento string   `dynamodbav:"complemento"`
	Cidade      string   `dynamodbav:"cidade"`
	UF          string   `dynamodbav:"uf"`
	Latitude    *float64 `dynamodbav:"latitude,omitempty"`
	Longitude   *float64 `dynamodbav:"longitude,omitempty"`
	UTMSource   string   `dynamodbav:"utmSource"`
	UTMMedium   string   `dynamodbav:"utmMedium"`
	UTMCampaign string   `dynamodbav:"utmCampaign"`
	Tipo        string   `dynamodbav:"tipo"`
	Status      string   `dynamodbav:"status"`
	Source      string   `dynamodbav:"source"`
	CriadoEm    string   `dynamodbav:"criadoEm"`
}

// StoreDynamo implementa cadastro.Store sobre uma tabela DynamoDB.
type StoreDynamo struct {
	client dynamoAPI
	tabela string
}

var _ cadastro.Store = (*StoreDynamo)(nil)

func NewStoreDynamo(client dynamoAPI, tabela string) *StoreDynamo {
	if client == nil {
		panic("armazenamento: cliente dynamodb não pode ser nil")
	}
	if tabela == "" {
		panic("armazenamento: nome da tabela não pode ser vazio")
	}
	return &StoreDynamo{client: client, tabela: tabela}
}

// CarregarClienteDynamo monta um cliente DynamoDB com a configuração padrão
// da AWS (credenciais do ambiente ou do perfil).
func CarregarClienteDynamo(ctx context.Context, regiao string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(regiao))
	if err != nil {
		return nil, fmt.Errorf("armazenamento: configuração aws: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// Salvar grava o documento com timestamp do servidor. A escrita é condicional
// à ausência da chave: um WhatsApp repetido falha com ErrWhatsAppJaCadastrado.
func (s *StoreDynamo) Salvar(ctx context.Context, c *cadastro.Cadastro) (string, error) {
	reg := paraRegistro(c)
	reg.ID = uuid.NewString()
	reg.CriadoEm = time.Now().UTC().Format(time.RFC3339)

	item, err := attributevalue.MarshalMap(reg)
	if err != nil {
		return "", fmt.Errorf("armazenamento: falha ao serializar cadastro: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tabela),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(whatsapp)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return "", cadastro.ErrWhatsAppJaCadastrado
		}
		return "", fmt.Errorf("armazenamento: falha ao gravar cadastro: %w", err)
	}
	c.RegistroID = reg.ID
	return reg.ID, nil
}

func (s *StoreDynamo) ExistePorWhatsApp(ctx context.Context, whatsapp string) (bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tabela),
		Key: map[string]types.AttributeValue{
			"whatsapp": &types.AttributeValueMemberS{Value: whatsapp},
		},
		ProjectionExpression: aws.String("whatsapp"),
	})
	if err != nil {
		return false, fmt.Errorf("armazenamento: falha na consulta: %w", err)
	}
	return len(out.Item) > 0, nil
}

func (s *StoreDynamo) Listar(ctx context.Context, filtro cadastro.Filtro) ([]cadastro.Cadastro, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(s.tabela)}

	expressoes := ""
	nomes := map[string]string{}
	valores := map[string]types.AttributeValue{}
	if filtro.Categoria != "" {
		expressoes = "#categoria = :categoria"
		nomes["#categoria"] = "categoria"
		valores[":categoria"] = &types.AttributeValueMemberS{Value: filtro.Categoria}
	}
	if filtro.Status != "" {
		if expressoes != "" {
			expressoes += " AND "
		}
		expressoes += "#status = :status"
		nomes["#status"] = "status"
		valores[":status"] = &types.AttributeValueMemberS{Value: filtro.Status}
	}
	if expressoes != "" {
		input.FilterExpression = aws.String(expressoes)
		input.ExpressionAttributeNames = nomes
		input.ExpressionAttributeValues = valores
	}

	var cadastros []cadastro.Cadastro
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("armazenamento: falha ao listar: %w", err)
		}

		var registros []registroDynamo
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &registros); err != nil {
			return nil, fmt.Errorf("armazenamento: falha ao desserializar: %w", err)
		}
		for i := range registros {
			cadastros = append(cadastros, paraCadastro(&registros[i]))
			if filtro.Limite > 0 && len(cadastros) >= filtro.Limite {
				return cadastros, nil
			}
		}

		if len(out.LastEvaluatedKey) == 0 {
			return cadastros, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (s *StoreDynamo) Contar(ctx context.Context) (cadastro.Estatisticas, error) {
	input := &dynamodb.ScanInput{
		TableName:            aws.String(s.tabela),
		ProjectionExpression: aws.String("tipo"),
	}

	var stats cadastro.Estatisticas
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return cadastro.Estatisticas{}, fmt.Errorf("armazenamento: falha ao contar: %w", err)
		}
		for _, item := range out.Items {
			stats.Total++
			if tipo, ok := item["tipo"].(*types.AttributeValueMemberS); ok && tipo.Value == "PJ" {
				stats.PJ++
			} else {
				stats.PF++
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			return stats, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func paraRegistro(c *cadastro.Cadastro) *registroDynamo {
	return &registroDynamo{
		Whatsapp:    c.Whatsapp,
		Nome:        c.Nome,
		Categoria:   c.Categoria,
		Email:       c.Email,
		CNPJ:        c.CNPJ,
		CEP:         c.CEP,
		Endereco:    c.Endereco,
		Complemento: c.Complemento,
		Cidade:      c.Cidade,
		UF:          c.UF,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		UTMSource:   c.UTMSource,
		UTMMedium:   c.UTMMedium,
		UTMCampaign: c.UTMCampaign,
		Tipo:        c.Tipo,
		Status:      c.Status,
		Source:      c.Source,
	}
}

func paraCadastro(r *registroDynamo) cadastro.Cadastro {
	c := cadastro.Cadastro{
		RegistroID:  r.ID,
		Nome:        r.Nome,
		Categoria:   r.Categoria,
		Whatsapp:    r.Whatsapp,
		Email:       r.Email,
		CNPJ:        r.CNPJ,
		CEP:         r.CEP,
		Endereco:    r.Endereco,
		Complemento: r.Complemento,
		Cidade:      r.Cidade,
		UF:          r.UF,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		UTMSource:   r.UTMSource,
		UTMMedium:   r.UTMMedium,
		UTMCampaign: r.UTMCampaign,
		Tipo:        r.Tipo,
		Status:      r.Status,
		Source:      r.Source,
	}
	if t, err := time.Parse(time.RFC3339, r.CriadoEm); err == nil {
		c.CreatedAt = t
	}
	return c
}
