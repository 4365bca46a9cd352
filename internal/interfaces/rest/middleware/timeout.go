package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/DanielPopoola/connector-gateway/internal/apierrors"
	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest"
)

// Timeout bounds the whole request, connector calls included.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	body := rest.ErrorBody(apierrors.GatewayTimeout())
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)

			w.Header().Set("Content-Type", "application/json")
			http.TimeoutHandler(next, timeout, body).ServeHTTP(w, r)
		})
	}
}
