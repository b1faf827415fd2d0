package swagger

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	apispec "github.com/koassets/rights-backend/api"
	httpSwagger "github.com/swaggo/http-swagger"
)

// ServeSwaggerJSON serves the OpenAPI document as JSON.
func ServeSwaggerJSON(w http.ResponseWriter, r *http.Request) {
	spec, err := apispec.GetSwagger()
	if err != nil {
		http.Error(w, "Failed to load OpenAPI spec", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*") // CORS off for docs
	json.NewEncoder(w).Encode(spec)
}

// Mount attaches the docs UI and the raw document outside the validated
// API surface.
func Mount(r chi.Router) {
	r.Get("/openapi.json", ServeSwaggerJSON)
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/openapi.json"),
	))
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/docs/index.html", http.StatusMovedPermanently)
	})
}
