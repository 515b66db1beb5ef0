package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sportlinkhq/sportlink/config"
	"github.com/sportlinkhq/sportlink/db"
	"github.com/sportlinkhq/sportlink/logger"
	"github.com/sportlinkhq/sportlink/realtime"
	"github.com/sportlinkhq/sportlink/services"
)

type Server struct {
	Config              *config.Config
	AuthService         services.AuthService
	ConversationService services.ConversationService
	MessageService      services.MessageService
	AccessService       services.AccessService
	UserRepository      db.UserRepository
	Hub                 *realtime.Hub
}

// Start runs the HTTP server until an interrupt arrives, then drains
// in-flight requests.
func (s *Server) Start() {
	port := s.Config.Port
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.setupRouter(),
	}

	go func() {
		logger.Get().Info().Int("port", port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Get().Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Get().Error().Err(err).Msg("forced shutdown")
	}
	logger.Get().Info().Msg("server stopped")
}
