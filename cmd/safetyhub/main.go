package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NeuralTrust/SafetyHub/pkg/config"
	"github.com/NeuralTrust/SafetyHub/pkg/dependency_container"
	"github.com/NeuralTrust/SafetyHub/pkg/infra/auth/jwt"
	infraLogger "github.com/NeuralTrust/SafetyHub/pkg/infra/logger"
	_ "github.com/NeuralTrust/SafetyHub/pkg/infra/migrations"
	"github.com/NeuralTrust/SafetyHub/pkg/server"
	"github.com/NeuralTrust/SafetyHub/pkg/server/router"
	"github.com/joho/godotenv"
)

const serviceName = "safetyhub"

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "token" {
		issueAdminToken(cfg)
		return
	}

	logger, closeLogger, err := infraLogger.NewLogger(serviceName, infraLogger.OptionsFromEnv())
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLogger()

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
	})
	if err != nil {
		logger.Fatalf("failed to initialize dependencies: %v", err)
	}
	defer container.Close()

	srv := server.NewAPIServer(server.APIServerDI{
		Config: cfg,
		Logger: logger,
		Routers: []router.ServerRouter{
			router.NewAPIRouter(container.MiddlewareTransport, container.HandlerTransport),
		},
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
		return
	}
	logger.Info("server gracefully stopped")
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "./config"
}

// issueAdminToken prints a token for the admin routes: safetyhub token [subject] [ttl]
func issueAdminToken(cfg *config.Config) {
	subject := "admin"
	if len(os.Args) > 2 {
		subject = os.Args[2]
	}
	ttl := 24 * time.Hour
	if len(os.Args) > 3 {
		d, err := time.ParseDuration(os.Args[3])
		if err != nil {
			log.Fatalf("invalid ttl %q: %v", os.Args[3], err)
		}
		ttl = d
	}
	token, err := jwt.NewJwtManager(&cfg.Server).CreateToken(subject, ttl)
	if err != nil {
		log.Fatalf("failed to create token: %v", err)
	}
	fmt.Println(token)
}
