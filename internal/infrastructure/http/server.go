package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/merchbridge/payment-service/internal/adapter/handler/http"
	"github.com/merchbridge/payment-service/internal/config"
	"github.com/merchbridge/payment-service/internal/domain/provider"
	"github.com/merchbridge/payment-service/internal/infrastructure/database"
	"github.com/merchbridge/payment-service/internal/usecase"
	"github.com/merchbridge/payment-service/pkg/logger"
	"go.uber.org/zap"
)

type Server struct {
	config  *config.Config
	logger  *zap.Logger
	echo    *echo.Echo
	repos   *database.Repositories
	gateway provider.IncomingPaymentGateway
}

func NewServer(cfg *config.Config, log *zap.Logger, repos *database.Repositories, gateway provider.IncomingPaymentGateway) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(logger.NewEchoRequestLogger(log.With(zap.String("component", "HTTP"))))
	e.Use(middleware.Recover())

	corsConfig := middleware.DefaultCORSConfig
	if cfg.Service.ClientURL != "" {
		corsConfig.AllowOrigins = []string{cfg.Service.ClientURL}
	}
	corsConfig.AllowMethods = []string{echo.GET, echo.POST, echo.OPTIONS}
	e.Use(middleware.CORSWithConfig(corsConfig))

	return &Server{
		config:  cfg,
		logger:  log,
		echo:    e,
		repos:   repos,
		gateway: gateway,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	// ErrServerClosed is the normal outcome of Shutdown, not a startup failure.
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	serviceName := s.config.Service.Name
	if serviceName == "" {
		serviceName = "payment-service"
	}

	s.echo.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"ok":      true,
			"service": serviceName,
		})
	})

	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "payment",
		})
	})

	paymentUsecase := usecase.NewPaymentUsecase(
		s.repos.PaymentRecord,
		s.gateway,
		s.logger.With(zap.String("component", "PaymentUsecase")),
	)
	reconcileUsecase := usecase.NewReconcileUsecase(
		s.repos.PaymentRecord,
		s.gateway,
		s.config.Service.OpenPayments.ResourceBaseURL,
		s.logger.With(zap.String("component", "ReconcileUsecase")),
	)

	paymentHandler := handlers.NewPaymentHandler(paymentUsecase, s.logger.With(zap.String("component", "PaymentHandler")))
	statusHandler := handlers.NewStatusHandler(reconcileUsecase, s.logger.With(zap.String("component", "StatusHandler")))
	webhookHandler := handlers.NewWebhookHandler(reconcileUsecase, s.repos.WebhookEvent, s.logger.With(zap.String("component", "WebhookHandler")))

	s.echo.POST("/create-payment", paymentHandler.CreatePayment)
	s.echo.GET("/status/*", statusHandler.PollStatus)
	s.echo.POST("/webhook", webhookHandler.HandleWebhook)
	s.echo.GET("/payments", paymentHandler.ListPayments)
	s.echo.GET("/payments/:id", paymentHandler.GetPayment)
}
