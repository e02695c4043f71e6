package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type credenciais struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// obterCredenciais prioriza DB_USERNAME/DB_PASSWORD do ambiente; sem eles,
// busca o segredo no AWS Secrets Manager.
func obterCredenciais(secretID string) (string, string, error) {
	usuario := os.Getenv("DB_USERNAME")
	senha := os.Getenv("DB_PASSWORD")
	if usuario != "" && senha != "" {
		return usuario, senha, nil
	}

	if secretID == "" {
		return "", "", errors.New("db: credenciais ausentes (defina DB_USERNAME/DB_PASSWORD ou DB_SECRET_ID)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", "", fmt.Errorf("db: configuração aws: %w", err)
	}
	secrets := secretsmanager.NewFromConfig(cfg)

	result, err := secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return "", "", fmt.Errorf("db: falha ao buscar segredo: %w", err)
	}

	var cred credenciais
	if err := json.Unmarshal([]byte(*result.SecretString), &cred); err != nil {
		return "", "", fmt.Errorf("db: segredo inválido: %w", err)
	}
	return cred.Username, cred.Password, nil
}
