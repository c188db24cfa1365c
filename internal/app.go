package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ch1kkapo0m/scraping-auto/internal/adapters/autoriafetcher"
	"github.com/ch1kkapo0m/scraping-auto/internal/adapters/backup"
	logger_adapter "github.com/ch1kkapo0m/scraping-auto/internal/adapters/logger"
	postgres_adapter "github.com/ch1kkapo0m/scraping-auto/internal/adapters/postgres"
	"github.com/ch1kkapo0m/scraping-auto/internal/adapters/rest"
	"github.com/ch1kkapo0m/scraping-auto/internal/configs"
	"github.com/ch1kkapo0m/scraping-auto/internal/constants"
	"github.com/ch1kkapo0m/scraping-auto/internal/contextkeys"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/port"
	usecases_port "github.com/ch1kkapo0m/scraping-auto/internal/core/port/usecases"
	"github.com/ch1kkapo0m/scraping-auto/internal/core/usecase"
	"github.com/ch1kkapo0m/scraping-auto/internal/scheduler"
	fluentlogger "github.com/ch1kkapo0m/scraping-auto/pkg/fluent_logger"
	"github.com/ch1kkapo0m/scraping-auto/pkg/gate"
	"github.com/ch1kkapo0m/scraping-auto/pkg/postgres"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App – структура приложения
type App struct {
	config       *configs.AppConfig
	dbPool       *pgxpool.Pool
	fluentClient *fluent.Fluent
	logger       port.LoggerPort

	runCrawlUseCase usecases_port.RunCrawlPort
	backupUseCase   usecases_port.BackupPort

	statusHandler *rest.StatusHandler
	httpServer    *rest.Server
	sched         *scheduler.Scheduler
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false, // текстовый формат
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	// Создаем наш композитный логгер
	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 2. ИНИЦИАЛИЗАЦИЯ НИЗКОУРОВНЕВЫХ ЗАВИСИМОСТЕЙ ---
	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{
		DatabaseURL: appConfig.Database.URL(),
		MaxConns:    int32(appConfig.Database.MaxConns),
	})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	carRepo, err := postgres_adapter.NewPostgresCarRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create car repository: %w", err)
	}

	if err := carRepo.Bootstrap(context.Background()); err != nil {
		appLogger.Error("Failed to bootstrap database schema", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to bootstrap database schema: %w", err)
	}
	appLogger.Info("Database schema is ready.", nil)

	fetcherAdapter, err := autoriafetcher.NewAutoRiaFetcherAdapter(autoriafetcher.FetcherConfig{})
	if err != nil {
		appLogger.Error("Failed to create AutoRia Fetcher Adapter", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to initialize autoria fetcher: %w", err)
	}
	appLogger.Info("AutoRia Fetcher Adapter initialized.", nil)

	// Шлюз на эндпоинт телефонов — один запрос на весь процесс
	phoneGate := gate.New(constants.PhoneGateCapacity)
	phoneResolver, err := autoriafetcher.NewPhoneResolverAdapter(autoriafetcher.PhoneResolverConfig{
		Gate: phoneGate,
	})
	if err != nil {
		appLogger.Error("Failed to create Phone Resolver Adapter", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to initialize phone resolver: %w", err)
	}

	dumpWriter, err := backup.NewCSVDumpWriter(appConfig.Backup.Dir)
	if err != nil {
		appLogger.Error("Failed to create dump writer", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to initialize dump writer: %w", err)
	}
	appLogger.Info("All outgoing adapters initialized.", nil)

	// --- 3. ИНИЦИАЛИЗАЦИЯ USE CASES (ядра бизнес-логики) ---
	processLinkUseCase := usecase.NewProcessLinkUseCase(fetcherAdapter, phoneResolver, carRepo)
	runCrawlUseCase := usecase.NewRunCrawlUseCase(fetcherAdapter, carRepo, processLinkUseCase, constants.MaxDetailWorkers)
	backupUseCase := usecase.NewBackupUseCase(carRepo, dumpWriter)
	appLogger.Info("All use cases initialized.", nil)

	// --- 4. ИНИЦИАЛИЗАЦИЯ ВХОДЯЩИХ АДАПТЕРОВ ---
	statusHandler := rest.NewStatusHandler(carRepo, baseLogger.WithFields(port.Fields{"component": "rest"}))
	httpServer := rest.NewServer(appConfig.HTTP.Port, statusHandler)

	sched := scheduler.New(baseLogger.WithFields(port.Fields{"component": "scheduler"}))

	// 5. Собираем приложение
	application := &App{
		config:          appConfig,
		dbPool:          dbPool,
		fluentClient:    fluentClient,
		logger:          baseLogger,
		runCrawlUseCase: runCrawlUseCase,
		backupUseCase:   backupUseCase,
		statusHandler:   statusHandler,
		httpServer:      httpServer,
		sched:           sched,
	}

	return application, nil
}

// runCrawl выполняет один полный проход по каталогу.
func (a *App) runCrawl(ctx context.Context) {
	runID := uuid.New()
	runLogger := a.logger.WithFields(port.Fields{"run_id": runID.String()})
	runCtx := contextkeys.ContextWithLogger(ctx, runLogger)

	stats, err := a.runCrawlUseCase.Execute(runCtx, runID)
	if stats != nil {
		a.statusHandler.SetLastRun(stats)
	}
	if err != nil {
		runLogger.Error("Crawl run failed", err, nil)
		return
	}
	runLogger.Info("Crawl run completed", port.Fields{
		"saved":  stats.Saved,
		"failed": stats.Failed,
	})
}

// runBackup выгружает базу в файл.
func (a *App) runBackup(ctx context.Context) {
	backupLogger := a.logger.WithFields(port.Fields{"component": "backup"})
	backupCtx := contextkeys.ContextWithLogger(ctx, backupLogger)

	path, err := a.backupUseCase.Execute(backupCtx)
	if err != nil {
		backupLogger.Error("Backup run failed", err, nil)
		return
	}
	backupLogger.Info("Backup run completed", port.Fields{"path": path})
}

// Run запускает все компоненты приложения и управляет их жизненным циклом
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	appLogger := a.logger.WithFields(port.Fields{"component": "app"})

	defer func() {
		appLogger.Info("Shutdown sequence initiated...", nil)

		// Ждем завершения всех запущенных горутин
		appLogger.Info("Waiting for background processes to finish...", nil)
		wg.Wait()

		a.sched.Stop()
		appLogger.Info("Scheduler stopped.", nil)

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			appLogger.Error("Error stopping HTTP server", err, nil)
		}

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				appLogger.Error("Error closing fluent client", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			appLogger.Info("PostgreSQL pool closed.", nil)
		}
		appLogger.Info("Application shut down gracefully.", nil)
	}()

	appLogger.Info("Application is starting...", nil)

	// Расписание: ежедневный проход и ежедневный бэкап
	if err := a.sched.AddDaily("crawl", a.config.Schedule.CrawlTime, func() {
		a.runCrawl(appCtx)
	}); err != nil {
		cancelApp()
		return err
	}
	if err := a.sched.AddDaily("backup", a.config.Schedule.BackupTime, func() {
		a.runBackup(appCtx)
	}); err != nil {
		cancelApp()
		return err
	}
	a.sched.Start()

	if a.config.Schedule.RunOnStart {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.runCrawl(appCtx)
		}()
	}

	serverErrors := make(chan error, 1)
	go func() {
		appLogger.Info("Starting HTTP server...", port.Fields{"port": a.config.HTTP.Port})
		if err := a.httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	appLogger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		appLogger.Info("Received signal. Shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		appLogger.Error("A critical component failed. Shutting down...", err, nil)
	case <-appCtx.Done():
		appLogger.Warn("Context was cancelled unexpectedly. Shutting down...", nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
