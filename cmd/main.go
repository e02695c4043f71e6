package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/salvo-app/api-cadastro/internal/armazenamento"
	"github.com/salvo-app/api-cadastro/internal/auth"
	"github.com/salvo-app/api-cadastro/internal/cadastro"
	"github.com/salvo-app/api-cadastro/internal/config"
	"github.com/salvo-app/api-cadastro/internal/db"
	"github.com/salvo-app/api-cadastro/internal/eventos"
	"github.com/salvo-app/api-cadastro/internal/metrics"
	"github.com/salvo-app/api-cadastro/internal/middleware"
	"github.com/salvo-app/api-cadastro/internal/notificacao"
	"github.com/salvo-app/api-cadastro/internal/viacep"
)

func main() {
	cfg := config.Carregar()
	ctx := context.Background()

	// Backend de persistência escolhido na inicialização
	var store cadastro.Store
	switch cfg.Persistencia {
	case "dynamo":
		cliente, err := armazenamento.CarregarClienteDynamo(ctx, cfg.AWSRegiao)
		if err != nil {
			log.Fatal("Erro ao configurar DynamoDB:", err)
		}
		store = armazenamento.NewStoreDynamo(cliente, cfg.DynamoTabela)
	case "postgres":
		conexao, err := db.Conectar(cfg)
		if err != nil {
			log.Fatal("Erro ao conectar no banco:", err)
		}
		if err := conexao.AutoMigrate(&cadastro.Cadastro{}); err != nil {
			log.Fatal("Erro no AutoMigrate:", err)
		}
		store = cadastro.NewRepositorioGorm(conexao)
	default:
		log.Fatalf("Persistência desconhecida: %q (use postgres ou dynamo)", cfg.Persistencia)
	}

	// Notificações de melhor esforço após cada cadastro
	produtor := eventos.NewProdutor(cfg.KafkaBrokers, cfg.KafkaTopico)
	defer produtor.Fechar()

	pipeline := cadastro.NewPipeline(store,
		notificacao.NewWebhook(cfg.WebhookURL),
		notificacao.NewEmail(cfg.SMTPHost, cfg.SMTPPorta, cfg.SMTPUsuario, cfg.SMTPSenha, cfg.SMTPRemetente),
		produtor,
	)

	// Rate limit das rotas públicas
	limiterStore := middleware.NewLimiterStore(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiterStore.IniciarLimpeza(ctx)
	contador := middleware.NewContadorRedis(cfg.RedisAddr, cfg.RedisSenha)
	limitar := middleware.RateLimit(limiterStore, contador)

	// Ponteiro nil não pode virar interface não-nil no handler
	var telemetria cadastro.ContadorTrafego
	if contador != nil {
		telemetria = contador
	}

	m := metrics.NewCadastroMetrics(nil)
	handler := cadastro.NewHandler(pipeline, store, viacep.NewClient(), m, telemetria, cfg.Persistencia)
	authHandler := auth.NewHandler([]byte(cfg.JWTSecret), cfg.AdminLogin, cfg.AdminSenhaHash)

	// Router
	r := mux.NewRouter()
	r.HandleFunc("/health", handler.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Rotas públicas da landing page
	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/cadastros", limitar(http.HandlerFunc(handler.Criar))).Methods("POST")
	api.Handle("/cadastros/verificar-whatsapp", limitar(http.HandlerFunc(handler.VerificarWhatsApp))).Methods("POST")
	api.HandleFunc("/cep/{cep}", handler.ConsultarCEP).Methods("GET")
	api.HandleFunc("/admin/login", authHandler.LoginAdmin).Methods("POST")

	// Rotas do painel admin
	admin := api.PathPrefix("").Subrouter()
	admin.Use(auth.MiddlewareAutenticacao([]byte(cfg.JWTSecret)))
	admin.HandleFunc("/cadastros", handler.Listar).Methods("GET")
	admin.HandleFunc("/cadastros/exportar", handler.Exportar).Methods("GET")
	admin.HandleFunc("/cadastros/stats", handler.Estatisticas).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigens,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	// Inicia servidor
	fmt.Printf("Servidor rodando em http://localhost:%s (persistência: %s)\n", cfg.Porta, cfg.Persistencia)
	log.Fatal(http.ListenAndServe(":"+cfg.Porta, c.Handler(r)))
}
