package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/lavanderia/lavanderia-backend/internal/adapter/api/controller"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/api/route"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/gateway/esp32"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/gateway/nfcreader"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/notifier"
	"github.com/lavanderia/lavanderia-backend/internal/adapter/repository"
	"github.com/lavanderia/lavanderia-backend/internal/config"
	"github.com/lavanderia/lavanderia-backend/internal/infrastructure/database"
	"github.com/lavanderia/lavanderia-backend/internal/service"
	"github.com/lavanderia/lavanderia-backend/pkg/logger"
)

// App representa la aplicación y sus dependencias
type App struct {
	cfg     config.Config
	router  *gin.Engine
	db      *pgxpool.Pool
	redis   *redis.Client
	monitor *service.Monitor
	logger  logger.Logger
}

// NewApp arma la aplicación completa: base de datos, broker de eventos,
// repositorios, gateways, servicios, monitor y rutas
func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger()

	// Base de datos
	db, err := database.NewPostgresDB()
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(); err != nil {
		log.Warn("no se pudieron aplicar migraciones", "error", err)
	}

	// Broker de eventos. Si Redis no está, los eventos se descartan.
	var events notifier.Notifier = notifier.NopNotifier{}
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis no disponible, eventos deshabilitados", "addr", cfg.RedisAddr, "error", err)
	} else {
		events = notifier.NewRedisNotifier(redisClient, cfg.EventChannel, log)
	}

	// Repositorios
	saleRepo := repository.NewSaleRepository(db)
	productRepo := repository.NewProductRepository(db)
	cycleRepo := repository.NewCycleRepository(db)
	machineRepo := repository.NewMachineRepository(db)
	cardRepo := repository.NewCardRepository(db)
	clientRepo := repository.NewClientRepository(db)
	deviceConfigRepo := repository.NewESP32ConfigRepository(db)

	// Gateways físicos
	bridgeClient := esp32.NewClient(cfg.BridgeURL, cfg.GatewayTimeout)
	readerClient := nfcreader.NewClient(cfg.NFCServiceURL)

	// Servicios
	machineSvc := service.NewMachineService(machineRepo, deviceConfigRepo, bridgeClient, events, log)
	saleSvc := service.NewSaleService(saleRepo, productRepo, cycleRepo, cardRepo, machineSvc, events, log)
	nfcSvc := service.NewNFCService(cardRepo, clientRepo, readerClient, cfg.NFCWaitTimeout, log)
	monitor := service.NewMonitor(saleSvc, cfg.MonitorInterval, events, log)

	// Controllers
	saleController := controller.NewSaleController(saleSvc, monitor, log)
	nfcController := controller.NewNFCController(nfcSvc, log)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "1.0.0"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	route.RegisterSaleRoutes(api, saleController)
	route.RegisterNFCRoutes(api, nfcController)

	return &App{
		cfg:     cfg,
		router:  router,
		db:      db,
		redis:   redisClient,
		monitor: monitor,
		logger:  log,
	}, nil
}

// Start levanta el servidor HTTP y el monitor de finalización, y espera
// la señal de apagado para cerrar ordenadamente
func (a *App) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.monitor.Start(ctx)

	srv := &http.Server{
		Addr:    a.cfg.HTTPAddr,
		Handler: a.router,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("servidor HTTP iniciado", "addr", a.cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("apagando servidor")
	a.monitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("error en el apagado del servidor", "error", err)
	}

	a.Close()
	return nil
}


// Close libera los recursos de la aplicación
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("error al cerrar conexión Redis", "error", err)
		}
	}
}
