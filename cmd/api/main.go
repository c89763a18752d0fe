package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/exp-usinagem-api/internal/application/production"
	rules "github.com/jhoicas/exp-usinagem-api/internal/domain/production"
	"github.com/jhoicas/exp-usinagem-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/exp-usinagem-api/internal/infrastructure/pdf"
	"github.com/jhoicas/exp-usinagem-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/exp-usinagem-api/internal/interfaces/http"
	"github.com/jhoicas/exp-usinagem-api/pkg/config"
	"github.com/jhoicas/exp-usinagem-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicação")

	ctx := context.Background()

	var (
		tx    production.TxRunner
		repos production.Repos
	)
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		tx, repos = store, store.Repos()
		log.Warn().Msg("armazenamento em memória: os dados se perdem ao reiniciar")
	default:
		if cfg.DB.Migrate {
			if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
				log.Fatal().Err(err).Msg("migrações do banco")
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexão com PostgreSQL")
		}
		defer pool.Close()
		tx, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	reconciler := production.NewReconciler()
	orderUC := production.NewOrderUseCase(tx, repos, reconciler, infrapdf.NewMarotoReportGenerator(), log)
	entryUC := production.NewEntryUseCase(tx, repos, rules.NewRules(int64(cfg.Production.MinInspectionPieces)), reconciler, log)
	workflowUC := production.NewWorkflowUseCase(tx, production.NewLedger(), log)
	boardUC := production.NewBoardUseCase(repos)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI em http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Expedição & Usinagem API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Orders:    orderUC,
		Workflow:  workflowUC,
		Entries:   entryUC,
		Board:     boardUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP encerrado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
