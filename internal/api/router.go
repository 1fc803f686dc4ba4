// Package api wires the HTTP surface: the OAuth enrollment flow and a
// health endpoint. Data import never flows through HTTP; it runs on the
// scheduler and the CLI.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// NewRouter creates the HTTP router with all routes.
func NewRouter(oauth *OAuthHandler, health *HealthHandler, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(recoverMiddleware(log))

	router.HandleFunc("/", oauth.Landing).Methods("GET")
	router.HandleFunc("/auth", oauth.Authorize).Methods("GET")
	router.HandleFunc("/callback", oauth.Callback).Methods("GET")
	router.HandleFunc("/healthz", health.CheckHealth).Methods("GET")

	return router
}

func recoverMiddleware(log zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
