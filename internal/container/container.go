// Package container wires the application graph for the server and
// worker binaries.
package container

import (
	"context"

	"github.com/koassets/rights-backend/internal/api"
	"github.com/koassets/rights-backend/internal/assets"
	"github.com/koassets/rights-backend/internal/auth"
	"github.com/koassets/rights-backend/internal/aws"
	"github.com/koassets/rights-backend/internal/config"
	"github.com/koassets/rights-backend/internal/image"
	"github.com/koassets/rights-backend/internal/logging"
	"github.com/koassets/rights-backend/internal/notifications"
	"github.com/koassets/rights-backend/internal/queue"
	"github.com/koassets/rights-backend/internal/review"
	"github.com/koassets/rights-backend/internal/store"
)

type Container struct {
	Config        *config.Config
	Store         *store.RecordStore
	Queue         *queue.TaskQueue
	Engine        *review.Engine
	Dispatcher    *notifications.Dispatcher
	AuthService   *auth.AuthService
	Authenticator *auth.Authenticator
	EmailService  *aws.EmailService
	S3Service     *aws.S3Service
	SearchClient  *assets.SearchClient
	Renditions    *assets.RenditionService
	Server        *api.Server
	Worker        *queue.Worker
}

func New(cfg config.Config) (*Container, error) {
	recordStore, err := store.NewFromConfig(&cfg.Redis)
	if err != nil {
		return nil, err
	}

	taskQueue, err := queue.NewQueue(&cfg.Redis)
	if err != nil {
		return nil, err
	}

	templates, err := notifications.LoadTemplates(cfg.Server.TemplatesDir)
	if err != nil {
		return nil, err
	}

	dispatcher := notifications.NewDispatcher(recordStore, taskQueue, templates)
	engine := review.NewEngine(recordStore, dispatcher)

	jwtService, err := auth.NewJWTService([]byte(cfg.JWT.SigningKey), cfg.JWT.Issuer, cfg.JWT.Expiry)
	if err != nil {
		return nil, err
	}

	// The asynq queue manages its own Redis connection; this client is
	// shared by the record store and the auth state.
	authService := auth.NewAuthService(recordStore.Client(), jwtService, recordStore, cfg.Auth)
	authenticator := auth.NewAuthenticator(jwtService, recordStore)

	sesService, err := aws.NewEmailService(cfg.AWS)
	if err != nil {
		return nil, err
	}

	// localstack-specific config (email identity not managed by app in prod)
	if cfg.AWS.EndpointURL != "" {
		if _, err := sesService.VerifyEmailIdentity(context.Background()); err != nil {
			logging.Error("Failed to verify email identity", "error", err)
		}
	}

	s3Service, err := aws.NewS3Service(cfg.AWS)
	if err != nil {
		return nil, err
	}

	// localstack-specific config (buckets are not managed by app in prod)
	if cfg.AWS.EndpointURL != "" {
		if err := s3Service.CreateBucket(context.Background()); err != nil {
			logging.Info("S3 bucket creation attempted", "bucket", cfg.AWS.Bucket, "result", err)
		}
	}

	searchClient := assets.NewSearchClient(cfg.Search)
	renditions := assets.NewRenditionService(s3Service, taskQueue)

	worker := queue.NewWorker(&cfg.Redis, sesService, image.NewProcessor(s3Service))

	server := api.NewServer(engine, authService, dispatcher, dispatcher, searchClient, renditions, recordStore)

	logging.Info("Connected to Redis store", "addr", cfg.Redis.Addr)

	return &Container{
		Config:        &cfg,
		Store:         recordStore,
		Queue:         taskQueue,
		Engine:        engine,
		Dispatcher:    dispatcher,
		AuthService:   authService,
		Authenticator: authenticator,
		EmailService:  sesService,
		S3Service:     s3Service,
		SearchClient:  searchClient,
		Renditions:    renditions,
		Server:        server,
		Worker:        worker,
	}, nil
}

func (c *Container) Cleanup() {
	if c.Queue != nil {
		c.Queue.Close()
		logging.Info("Queue client closed")
	}
	if c.Worker != nil {
		c.Worker.Close()
		logging.Info("Worker closed")
	}
	if c.Store != nil {
		c.Store.Close()
		logging.Info("Store connection closed")
	}
}
