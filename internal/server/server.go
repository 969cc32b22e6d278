// Пакет server — HTTP-сервер Admin Console с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на ingress.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/goartstore/admin-console/internal/api/handlers"
	"github.com/bigkaa/goartstore/admin-console/internal/api/middleware"
	"github.com/bigkaa/goartstore/admin-console/internal/config"
	uihandlers "github.com/bigkaa/goartstore/admin-console/internal/ui/handlers"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/i18n"
	uimiddleware "github.com/bigkaa/goartstore/admin-console/internal/ui/middleware"
	"github.com/bigkaa/goartstore/admin-console/internal/ui/static"
)

// UIComponents — обработчики и middleware HTML-интерфейса.
type UIComponents struct {
	AuthHandler      *uihandlers.AuthHandler
	AuthMiddleware   *uimiddleware.UIAuth
	DashboardHandler *uihandlers.DashboardHandler
	UsersHandler     *uihandlers.UsersHandler
	UploadsHandler   *uihandlers.UploadsHandler
}

// Server — HTTP-сервер Admin Console.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	apiHandler *handlers.APIHandler,
	jwtAuth *middleware.JWTAuth,
	ui *UIComponents,
) *Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           NewRouter(logger, apiHandler, jwtAuth, ui),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает маршруты: JSON API, статику и HTML-интерфейс.
// Защищённые экраны проходят через UIAuth (redirect на /login без входа).
func NewRouter(
	logger *slog.Logger,
	apiHandler *handlers.APIHandler,
	jwtAuth *middleware.JWTAuth,
	ui *UIComponents,
) http.Handler {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	apiHandler.Routes(router, jwtAuth.Middleware())

	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	router.Group(func(r chi.Router) {
		r.Use(i18n.Middleware())

		// Публичные маршруты
		r.Get(uimiddleware.LoginPath, ui.AuthHandler.HandleLoginPage)
		r.Post(uimiddleware.LoginPath, ui.AuthHandler.HandleLogin)
		r.Post("/logout", ui.AuthHandler.HandleLogout)
		r.Post("/set-language", uihandlers.HandleSetLanguage)

		// Защищённые экраны
		r.Group(func(r chi.Router) {
			r.Use(ui.AuthMiddleware.Middleware())

			r.Get("/", ui.DashboardHandler.HandleDashboard)

			r.Get("/users", ui.UsersHandler.HandleList)
			r.Post("/users", ui.UsersHandler.HandleAdd)
			r.Post("/users/{id}/edit", ui.UsersHandler.HandleEdit)
			r.Post("/users/{id}/delete", ui.UsersHandler.HandleDelete)

			r.Get("/uploads", ui.UploadsHandler.HandleList)
			r.Post("/uploads", ui.UploadsHandler.HandleUpload)
			r.Post("/uploads/{id}/delete", ui.UploadsHandler.HandleDelete)
		})
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
