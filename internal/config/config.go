// Package config carrega a configuração do serviço a partir do ambiente,
// com suporte a arquivo .env em desenvolvimento.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Porta string
	// Persistencia escolhe o backend na inicialização: "postgres" ou "dynamo".
	Persistencia string

	// Postgres
	DBHost     string
	DBPorta    uint
	DBNome     string
	DBSecretID string

	// DynamoDB
	AWSRegiao    string
	DynamoTabela string

	// Integrações
	WebhookURL   string
	KafkaBrokers string
	KafkaTopico  string
	RedisAddr    string
	RedisSenha   string

	// SMTP (e-mail de boas-vindas)
	SMTPHost      string
	SMTPPorta     int
	SMTPUsuario   string
	SMTPSenha     string
	SMTPRemetente string

	// Admin
	JWTSecret      string
	AdminLogin     string
	AdminSenhaHash string

	// HTTP
	CORSOrigens    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Carregar lê o .env (se existir) e monta a configuração com defaults de
// desenvolvimento.
func Carregar() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: .env não encontrado, usando só o ambiente")
	}

	return &Config{
		Porta:        getEnv("PORT", "8080"),
		Persistencia: getEnv("PERSISTENCIA", "postgres"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPorta:    uint(getEnvInt("DB_PORT", 5432)),
		DBNome:     getEnv("DB_NAME", "salvo"),
		DBSecretID: getEnv("DB_SECRET_ID", ""),

		AWSRegiao:    getEnv("AWS_REGION", "us-east-1"),
		DynamoTabela: getEnv("DYNAMO_TABELA", "cadastros"),

		WebhookURL:   getEnv("WEBHOOK_URL", ""),
		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),
		KafkaTopico:  getEnv("KAFKA_TOPICO", "salvo.cadastros"),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisSenha:   getEnv("REDIS_PASSWORD", ""),

		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPorta:     getEnvInt("SMTP_PORT", 587),
		SMTPUsuario:   getEnv("SMTP_USER", ""),
		SMTPSenha:     getEnv("SMTP_PASS", ""),
		SMTPRemetente: getEnv("EMAIL_FROM", ""),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		AdminLogin:     getEnv("ADMIN_LOGIN", ""),
		AdminSenhaHash: getEnv("ADMIN_SENHA_HASH", ""),

		CORSOrigens:    getEnvLista("CORS_ORIGENS", "*"),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
	}
}

func getEnv(chave, padrao string) string {
	if v := os.Getenv(chave); v != "" {
		return v
	}
	return padrao
}

func getEnvInt(chave string, padrao int) int {
	if v := os.Getenv(chave); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return padrao
}

func getEnvFloat(chave string, padrao float64) float64 {
	if v := os.Getenv(chave); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return padrao
}

func getEnvLista(chave, padrao string) []string {
	bruto := getEnv(chave, padrao)
	var lista []string
	for _, item := range strings.Split(bruto, ",") {
		if item = strings.TrimSpace(item); item != "" {
			lista = append(lista, item)
		}
	}
	return lista
}
