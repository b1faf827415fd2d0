package main

import (
	"context"
	"log"

	"github.com/koassets/rights-backend/internal/aws"
	"github.com/koassets/rights-backend/internal/config"
	"github.com/koassets/rights-backend/internal/image"
	"github.com/koassets/rights-backend/internal/logging"
	"github.com/koassets/rights-backend/internal/queue"
)

func main() {
	cfg := config.Load()

	if err := logging.Init(&cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	emailSvc, err := aws.NewEmailService(cfg.AWS)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	log.Printf("Verifying sender identity %s...", emailSvc.Sender())
	if _, err := emailSvc.VerifyEmailIdentity(context.Background()); err != nil {
		log.Fatalf("Failed to verify email identity: %v", err)
	}

	s3Svc, err := aws.NewS3Service(cfg.AWS)
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}

	worker := queue.NewWorker(&cfg.Redis, emailSvc, image.NewProcessor(s3Svc))

	log.Println("Starting queue worker...")
	if err := worker.Run(); err != nil {
		log.Fatalf("Worker failed to start: %v", err)
	}
}
