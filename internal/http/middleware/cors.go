package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

func CORS(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		// Content-Disposition carries the download filename of exports.
		ExposedHeaders:   []string{"X-Request-Id", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}
