package delivery

import (
	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/pdf_ziper/internal/config"
	"github.com/Vovarama1992/pdf_ziper/internal/ratelimit"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes wires the admission chain in its fixed order: rate
// limit, then IP allow-list, then API key. Only /convert is gated;
// health and the index stay open for probes.
func RegisterRoutes(r chi.Router, h *Handler, limiter *ratelimit.Limiter, cfg *config.Config) {
	r.With(httputil.RecoverMiddleware).Get("/", h.Root)
	r.With(httputil.RecoverMiddleware).Get("/health", h.Health)

	r.With(
		httputil.RecoverMiddleware,
		RateLimitMiddleware(limiter),
		IPFilterMiddleware(cfg.AllowedIPs),
		AuthMiddleware(cfg.APIKey),
	).Post("/convert", h.Convert)
}
