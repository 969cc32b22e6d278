// Точка входа Admin Console — консоль администрирования справочника
// пользователей и загрузок. Загружает конфигурацию, создаёт хранилище
// рабочих пространств сессий, клиент источника начальных данных,
// выпуск токенов JSON API, мониторинг зависимостей (topologymetrics)
// и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/bigkaa/goartstore/admin-console/internal/api/handlers"
	"github.com/bigkaa/goartstore/admin-console/internal/api/middleware"
	"github.com/bigkaa/goartstore/admin-console/internal/api/token"
	"github.com/bigkaa/goartstore/admin-console/internal/config"
	"github.com/bigkaa/goartstore/admin-console/internal/seedclient"
	"github.com/bigkaa/goartstore/admin-console/internal/server"
	"github.com/bigkaa/goartstore/admin-console/internal/service"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/auth"
	uihandlers "github.com/bigkaa/goartstore/admin-console/internal/ui/handlers"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
	uimiddleware "github.com/bigkaa/goartstore/admin-console/internal/ui/middleware"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Admin Console запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	if os.Getenv("AC_DEMO_ACCOUNTS") == "" {
		logger.Warn("AC_DEMO_ACCOUNTS не задана, используются демонстрационные учётные записи")
	}

	// 3. Каталоги переводов UI
	if err := i18n.LoadFromEmbedFS(i18n.Init(logger), logger); err != nil {
		logger.Error("Ошибка загрузки переводов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Учётные записи (bcrypt-хеши паролей)
	creds, err := service.NewCredentials(cfg.DemoAccounts, bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Ошибка подготовки учётных записей", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Клиент источника начальных данных справочника
	seed := seedclient.New(cfg.SeedURL, &http.Client{Timeout: cfg.SeedTimeout}, logger)
	logger.Info("Источник начальных данных", slog.String("url", cfg.SeedURL))

	// 6. Хранилище рабочих пространств сессий
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := service.NewWorkspaceStore(ctx, creds, seed,
		service.WorkspaceConfig{
			PageSize:     cfg.PageSize,
			AllowedTypes: cfg.UploadAllowedTypes,
			MaxFileSize:  cfg.UploadMaxFileSize,
			SeedTimeout:  cfg.SeedTimeout,
		},
		cfg.SessionMax, cfg.SessionTTL, logger,
	)

	// 7. Session Manager — cookie UI-сессий (XChaCha20-Poly1305)
	sessionMgr, err := auth.NewSessionManager(cfg.SessionSecret, cfg.SecureCookie, cfg.SessionTTL)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("AC_SESSION_SECRET не задан, ключ сессий генерируется при каждом запуске")
	}

	// 8. Выпуск токенов JSON API и JWT middleware
	issuer, err := token.New(cfg.TokenIssuer, cfg.TokenTTL)
	if err != nil {
		logger.Error("Ошибка создания ключа подписи токенов", slog.String("error", err.Error()))
		os.Exit(1)
	}
	kf, err := issuer.Keyfunc()
	if err != nil {
		logger.Error("Ошибка создания keyfunc", slog.String("error", err.Error()))
		os.Exit(1)
	}
	jwtAuth := middleware.NewJWTAuth(kf, issuer.Name(), store, logger)
	logger.Info("JWT middleware инициализирован",
		slog.String("issuer", issuer.Name()),
		slog.String("token_ttl", cfg.TokenTTL.String()),
	)

	// 9. topologymetrics — мониторинг источника начальных данных
	var deps handlers.DependencyHealth
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"admin-console",
		cfg.DephealthGroup,
		cfg.SeedURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else if startErr := dephealthSvc.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", startErr.Error()),
		)
		dephealthSvc = nil
	} else {
		deps = dephealthSvc
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
	}

	// 10. API handler
	apiHandler := handlers.NewAPIHandler(
		handlers.NewHealthHandler(deps),
		store,
		issuer,
		cfg.UploadMaxRequestSize,
		logger,
	)

	// 11. Admin UI
	uiAuth := uimiddleware.NewUIAuth(sessionMgr, store, logger)
	uiComponents := &server.UIComponents{
		AuthHandler:      uihandlers.NewAuthHandler(store, sessionMgr, uiAuth, logger),
		AuthMiddleware:   uiAuth,
		DashboardHandler: uihandlers.NewDashboardHandler(logger),
		UsersHandler:     uihandlers.NewUsersHandler(logger),
		UploadsHandler:   uihandlers.NewUploadsHandler(cfg.UploadMaxRequestSize, logger),
	}

	// 12. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, apiHandler, jwtAuth, uiComponents)
	runErr := srv.Run()

	// 13. Graceful shutdown фоновых задач
	logger.Info("Останавливаем фоновые задачи...")
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}
	cancel()
	store.Shutdown()

	if runErr != nil {
		logger.Error("Ошибка сервера", slog.String("error", runErr.Error()))
		os.Exit(1)
	}
	logger.Info("Admin Console остановлен")
}
