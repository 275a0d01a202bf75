package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/readcircle/readcircle-server/internal/api"
	"github.com/readcircle/readcircle-server/internal/config"
	"github.com/readcircle/readcircle-server/internal/logger"
	"github.com/readcircle/readcircle-server/internal/ratelimit"
	"github.com/readcircle/readcircle-server/internal/service"
	"github.com/readcircle/readcircle-server/internal/validation"
)

// Auth endpoints get a tight per-IP budget; they do password hashing.
const (
	authRateLimitRPS   = 1
	authRateLimitBurst = 5
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server with all routes wired.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	handler := api.NewServer(api.ServerParams{
		AuthService:      do.MustInvoke[*service.AuthService](i),
		UserService:      do.MustInvoke[*service.UserService](i),
		BookService:      do.MustInvoke[*service.BookService](i),
		BookshelfService: do.MustInvoke[*service.BookshelfService](i),
		CircleService:    do.MustInvoke[*service.CircleService](i),
		CategoryService:  do.MustInvoke[*service.CategoryService](i),
		ReadingService:   do.MustInvoke[*service.ReadingService](i),
		InsightService:   do.MustInvoke[*service.InsightService](i),
		Validator:        validation.New(),
		AuthLimiter:      ratelimit.New(authRateLimitRPS, authRateLimitBurst),
		Logger:           log.Logger,
		CORSOrigins:      cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
