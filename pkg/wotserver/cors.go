package wotserver

import (
	"net/http"

	"github.com/rs/cors"
)

// corsMiddleware returns the fixed, wide-open CORS policy section 4.8
// mandates: every origin, the methods and headers a webthing client needs.
// Grounded on the header set the original server hard-codes via
// middleware::DefaultHeaders at start().
func corsMiddleware(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut,
			http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
	})
	return c.Handler(next)
}
