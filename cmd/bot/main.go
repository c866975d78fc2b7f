package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/bot"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/config"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/database"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/events"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/logging"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/metrics"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/repository"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/scissorhands"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/service"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, services, logger, closer, loadErr := loadConfigAndLogger()
	if loadErr != nil {
		return loadErr
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, stateService := initStateService(ctx, cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	apiClient := scissorhands.NewClient(
		cfg.API.BaseURL,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second,
		cfg.API.RateLimit.RPS,
		cfg.API.RateLimit.Burst,
		&logger,
	)

	catalogCache := repository.NewCatalogCache(redisClient, time.Duration(models.CatalogCacheTTL)*time.Second)
	catalogService := service.NewCatalogService(apiClient, catalogCache, &logger)

	eventBus := events.NewEventBus()
	subscribeBookingEvents(eventBus, &logger)

	bookingService := service.NewBookingService(apiClient, db, eventBus, &logger)
	botMetrics := bot.NewMetrics()

	// Фоновое обновление каталога
	catalogWorker := worker.NewCatalogWorker(
		catalogService,
		time.Duration(cfg.Bot.CatalogRefreshSeconds)*time.Second,
		worker.RetryPolicy{},
		&logger,
	)
	go catalogWorker.Start(ctx)

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go func() {
			if err := metrics.Serve(ctx, cfg.Monitoring.PrometheusPort); err != nil {
				logger.Error().Err(err).Msg("Metrics server error")
			}
		}()
	}

	return startBot(ctx, cfg, stateService, catalogService, bookingService, db, eventBus, services, botMetrics, &logger)
}

func loadConfigAndLogger() (*config.Config, []models.Service, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, zerolog.Logger{}, nil, err
	}
	logger := logging.WithComponent(baseLogger, "bot-main")

	servicesPath := os.Getenv("SERVICES_PATH")
	if servicesPath == "" {
		servicesPath = "configs/services.yaml"
	}
	servicesData, err := os.ReadFile(servicesPath)
	if err != nil {
		logger.Error().Err(err).Msgf("Ошибка чтения %s", servicesPath)
		return nil, nil, zerolog.Logger{}, closer, err
	}

	var servicesConfig struct {
		Services []models.Service `yaml:"services"`
	}
	if err := yaml.Unmarshal(servicesData, &servicesConfig); err != nil {
		logger.Error().Err(err).Msg("Ошибка парсинга services.yaml")
		return nil, nil, zerolog.Logger{}, closer, err
	}

	return cfg, servicesConfig.Services, *logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}
	return nil
}

func initStateService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.StateService) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	primaryRepo := repository.NewRedisStateRepository(redisClient, time.Duration(models.DefaultRedisTTL)*time.Second)
	fallbackRepo := repository.NewMemoryStateRepository(time.Duration(models.DefaultRedisTTL) * time.Second)
	stateRepo := repository.NewFailoverStateRepository(primaryRepo, fallbackRepo, logger)
	return redisClient, service.NewStateService(stateRepo, logger)
}

// subscribeBookingEvents пишет аудиторский след переходов заявок
func subscribeBookingEvents(bus *events.EventBus, logger *zerolog.Logger) {
	audit := func(ev *events.Event) error {
		payload, err := events.DecodeBookingPayload(ev)
		if err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}

		logger.Info().
			Str("event", ev.Type).
			Int64("user_id", payload.UserID).
			Int("appointment_id", payload.AppointmentID).
			Str("barber", payload.BarberName).
			Str("date", payload.Date).
			Str("slot_time", payload.SlotTime).
			Str("status", payload.Status).
			Msg("Booking event")
		return nil
	}

	bus.Subscribe(events.EventBookingSubmitted, audit)
	bus.Subscribe(events.EventBookingConfirmed, audit)
	bus.Subscribe(events.EventBookingFailed, audit)
	bus.Subscribe(events.EventBookingCancelled, audit)
}

func startBot(
	ctx context.Context,
	cfg *config.Config,
	stateService *service.StateService,
	catalogService *service.CatalogService,
	bookingService *service.BookingService,
	db *database.DB,
	eventBus *events.EventBus,
	services []models.Service,
	botMetrics *bot.Metrics,
	logger *zerolog.Logger,
) error {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return err
	}
	botAPI.Debug = cfg.Telegram.Debug

	botWrapper := bot.NewBotWrapper(botAPI)
	tgService := service.NewTelegramService(botWrapper)

	telegramBot, err := bot.NewBot(
		tgService, cfg, stateService, catalogService,
		bookingService, db, eventBus, services,
		botMetrics, logger,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания бота")
		return err
	}

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}
