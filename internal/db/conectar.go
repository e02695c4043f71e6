// Package db abre a conexão Postgres do backend local de persistência.
package db

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/salvo-app/api-cadastro/internal/config"
)

// Conectar monta o DSN a partir da configuração e abre a conexão.
// As credenciais vêm do ambiente ou, em produção, do AWS Secrets Manager.
func Conectar(cfg *config.Config) (*gorm.DB, error) {
	sslMode := ""
	if os.Getenv("DB_SSL_MODE_DISABLE") == "true" {
		sslMode = " sslmode=disable"
	}

	usuario, senha, err := obterCredenciais(cfg.DBSecretID)
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s",
		cfg.DBHost, usuario, senha, cfg.DBNome, cfg.DBPorta, sslMode)

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("db: falha ao conectar: %w", err)
	}
	return database, nil
}
