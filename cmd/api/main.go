package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Tienda-api/internal/application/auth"
	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/application/usecase"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/Tienda-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/Tienda-api/internal/interfaces/http"
	"github.com/jhoicas/Tienda-api/pkg/config"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		log.Info().Msg("esquema aplicado")
	}

	// Caché de estadísticas: Redis si está configurado; si no responde, se sigue sin caché.
	var statsCache ports.StatsCache = cache.Noop{}
	if cfg.Redis.Enabled() {
		rc, err := cache.NewRedisStatsCache(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, estadísticas sin caché")
		} else {
			defer rc.Close()
			statsCache = rc
		}
	}

	brandRepo := postgres.NewBrandRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	inputRepo := postgres.NewStockInputRepository(pool)
	outputRepo := postgres.NewStockOutputRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	statsRepo := postgres.NewStatisticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	statisticsUC := usecase.NewStatisticsUseCase(statsRepo, statsCache, log)
	inputUC := inventory.NewStockInputUseCase(txRunner, inputRepo, supplierRepo, statsCache, log)
	outputUC := inventory.NewStockOutputUseCase(txRunner, outputRepo, statsCache, log)
	receiptUC := inventory.NewReceiptUseCase(outputRepo, productRepo, infrapdf.NewMarotoReceiptGenerator(), cfg.App.StoreName)
	authUC := auth.NewAuthUseCase(userRepo, roleRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	sched := scheduler.New(cfg.Scheduler.LowStockSpec, statisticsUC, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		BrandUC:      usecase.NewBrandUseCase(brandRepo, statsCache, log),
		CategoryUC:   usecase.NewCategoryUseCase(categoryRepo, statsCache, log),
		SupplierUC:   usecase.NewSupplierUseCase(supplierRepo, statsCache, log),
		ProductUC:    usecase.NewProductUseCase(productRepo, brandRepo, categoryRepo, inputRepo, statsCache, log),
		UserUC:       usecase.NewUserUseCase(userRepo, roleRepo),
		RoleUC:       usecase.NewRoleUseCase(roleRepo, userRepo),
		StatisticsUC: statisticsUC,
		InputUC:      inputUC,
		OutputUC:     outputUC,
		ReceiptUC:    receiptUC,
		JWTSecret:    cfg.JWT.Secret,
		Health:       pool.Ping,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	sched.Stop()

	log.Info().Msg("aplicación detenida")
}
