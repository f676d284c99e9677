package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gregroclawski/DataShatter/pkg/logger"
)

// RequestLogger builds a request-scoped logger enriched with correlation_id,
// player_id, trace_id, and span_id, and stores it in the context via
// logger.NewContext. Downstream handlers retrieve it with logger.FromContext.
//
// Mount AFTER RequestLogging (which sets the correlation ID) and Tracing
// (which sets the span context). Player ID is only present on routes behind
// the Auth middleware.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if playerID := PlayerIDFromContext(ctx); playerID != "" {
				ctx = logger.WithPlayerID(ctx, playerID)
			}

			enriched := logger.WithContext(ctx, base)
			ctx = logger.NewContext(ctx, enriched)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
