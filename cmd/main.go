package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-chi/chi/v5"
	apispec "github.com/koassets/rights-backend/api"
	"github.com/koassets/rights-backend/internal/config"
	"github.com/koassets/rights-backend/internal/container"
	"github.com/koassets/rights-backend/internal/logging"
	appmiddleware "github.com/koassets/rights-backend/internal/middleware"
	"github.com/koassets/rights-backend/internal/swagger"
	oapimiddleware "github.com/oapi-codegen/nethttp-middleware"
)

func main() {
	cfg := config.Load()

	if err := logging.Init(&cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	c, err := container.New(*cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer c.Cleanup()

	spec, err := apispec.GetSwagger()
	if err != nil {
		log.Fatalf("Failed to load OpenAPI spec: %v", err)
	}

	validator := oapimiddleware.OapiRequestValidatorWithOptions(spec, &oapimiddleware.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: c.Authenticator.Authenticate,
		},
	})

	r := chi.NewMux()
	r.Use(appmiddleware.NewCORSHandler(&cfg.CORS))

	// docs live outside the validated surface
	swagger.Mount(r)

	r.Group(func(r chi.Router) {
		r.Use(validator)
		r.Use(appmiddleware.RequestContext)
		r.Use(appmiddleware.LoggingMiddleware)
		c.Server.Routes(r)
	})

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Server.Port)
	s := &http.Server{
		Handler: r,
		Addr:    addr,
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down server...")
		c.Cleanup()
		os.Exit(0)
	}()

	log.Printf("Server starting on %s", addr)
	log.Fatal(s.ListenAndServe())
}
