package armazenamento

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salvo-app/api-cadastro/internal/cadastro"
)

type dynamoFalso struct {
	itens       map[string]map[string]types.AttributeValue
	erroPutItem error
}

func novoDynamoFalso() *dynamoFalso {
	return &dynamoFalso{itens: map[string]map[string]types.AttributeValue{}}
}

func (f *dynamoFalso) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.erroPutItem != nil {
		return nil, f.erroPutItem
	}
	chave := in.Item["whatsapp"].(*types.AttributeValueMemberS).Value
	if _, ok := f.itens[chave]; ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	f.itens[chave] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *dynamoFalso) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	chave := in.Key["whatsapp"].(*types.AttributeValueMemberS).Value
	item, ok := f.itens[chave]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *dynamoFalso) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	out := &dynamodb.ScanOutput{}
	for _, item := range f.itens {
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func cadastroDeTeste() *cadastro.Cadastro {
	return &cadastro.Cadastro{
		Nome:        "Padaria Sol",
		Categoria:   "Padaria",
		Whatsapp:    "11987654321",
		Email:       "a@b.com",
		CEP:         "01310100",
		Endereco:    "Av. X",
		Complemento: "loja 2",
		Cidade:      "São Paulo",
		UF:          "SP",
		Tipo:        "PF",
		Status:      "ativo",
		Source:      "landing_page",
	}
}

func TestSalvarGeraIDETimestamp(t *testing.T) {
	falso := novoDynamoFalso()
	store := NewStoreDynamo(falso, "cadastros")

	id, err := store.Salvar(context.Background(), cadastroDeTeste())
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	item := falso.itens["11987654321"]
	require.NotNil(t, item)
	assert.NotEmpty(t, item["criadoEm"].(*types.AttributeValueMemberS).Value)
}

func TestSalvarWhatsAppRepetido(t *testing.T) {
	falso := novoDynamoFalso()
	store := NewStoreDynamo(falso, "cadastros")

	_, err := store.Salvar(context.Background(), cadastroDeTeste())
	require.NoError(t, err)

	_, err = store.Salvar(context.Background(), cadastroDeTeste())
	assert.ErrorIs(t, err, cadastro.ErrWhatsAppJaCadastrado)
}

func TestExistePorWhatsApp(t *testing.T) {
	falso := novoDynamoFalso()
	store := NewStoreDynamo(falso, "cadastros")

	existe, err := store.ExistePorWhatsApp(context.Background(), "11987654321")
	require.NoError(t, err)
	assert.False(t, existe)

	_, err = store.Salvar(context.Background(), cadastroDeTeste())
	require.NoError(t, err)

	existe, err = store.ExistePorWhatsApp(context.Background(), "11987654321")
	require.NoError(t, err)
	assert.True(t, existe)
}

// O identificador gerado na gravação volta preenchido na listagem.
func TestListarPreservaIdentificador(t *testing.T) {
	falso := novoDynamoFalso()
	store := NewStoreDynamo(falso, "cadastros")

	id, err := store.Salvar(context.Background(), cadastroDeTeste())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	cadastros, err := store.Listar(context.Background(), cadastro.Filtro{})
	require.NoError(t, err)
	require.Len(t, cadastros, 1)
	assert.Equal(t, id, cadastros[0].RegistroID)
}

func TestListarEContar(t *testing.T) {
	falso := novoDynamoFalso()
	store := NewStoreDynamo(falso, "cadastros")

	pf := cadastroDeTeste()
	_, err := store.Salvar(context.Background(), pf)
	require.NoError(t, err)

	pj := cadastroDeTeste()
	pj.Whatsapp = "11912345678"
	pj.Tipo = "PJ"
	pj.CNPJ = "11222333000181"
	_, err = store.Salvar(context.Background(), pj)
	require.NoError(t, err)

	cadastros, err := store.Listar(context.Background(), cadastro.Filtro{})
	require.NoError(t, err)
	assert.Len(t, cadastros, 2)

	stats, err := store.Contar(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.PF)
	assert.Equal(t, int64(1), stats.PJ)
}
