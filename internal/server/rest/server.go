package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/expertprofile/internal/server/auth"
	"github.com/dmitrijs2005/expertprofile/internal/logging"
	"github.com/dmitrijs2005/expertprofile/internal/models"
)

type ProfileService interface {
	Get(ctx context.Context, id auth.Identity) (*models.UserInfo, error)
	Save(ctx context.Context, id auth.Identity, in *models.UserInfo) (*models.UserInfo, error)
	RevisionURL(ctx context.Context, id auth.Identity, version int64) (string, error)
}

type Server struct {
	address         string
	profiles        ProfileService
	logger          logging.Logger
	jwtSecret       []byte
	allowedOrigins  []string
	shutdownTimeout time.Duration
}

func NewServer(address string, l logging.Logger, ps ProfileService, secretKey string, origins []string, shutdownTimeout time.Duration) *Server {
	return &Server{
		address:         address,
		logger:          l.With("module", "rest_server"),
		profiles:        ps,
		jwtSecret:       []byte(secretKey),
		allowedOrigins:  origins,
		shutdownTimeout: shutdownTimeout,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
