// Dev tool for poking the rendition bucket against localstack: upload an
// asset original, fetch it back, or mint a presigned link.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/koassets/rights-backend/internal/aws"
	"github.com/koassets/rights-backend/internal/config"
)

var (
	uploadPtr = flag.String("upload", "", "Path to file to upload as an asset original")
	assetPtr  = flag.String("asset", "", "Asset id to upload under (required with -upload)")
	getPtr    = flag.String("get", "", "Key of object to retrieve")
	linkPtr   = flag.String("link", "", "Key of object to generate a presigned URL for")
)

func main() {
	flag.Parse()

	cfg := config.Load()

	s3Service, err := aws.NewS3Service(cfg.AWS)
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}

	ctx := context.Background()

	// create bucket if it doesn't exist (for localstack)
	if err := s3Service.CreateBucket(ctx); err != nil {
		log.Printf("Warning: failed to ensure bucket exists: %v", err)
	}

	switch {
	case *uploadPtr != "":
		if *assetPtr == "" {
			log.Fatal("-upload requires -asset")
		}
		upload(ctx, s3Service, *uploadPtr, *assetPtr, cfg.AWS.Bucket)
	case *getPtr != "":
		get(ctx, s3Service, *getPtr, cfg.AWS.Bucket)
	case *linkPtr != "":
		link(ctx, s3Service, *linkPtr)
	default:
		flag.Usage()
	}
}

func upload(ctx context.Context, s3Service *aws.S3Service, filePath, assetID, bucket string) {
	file, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer file.Close()

	key := fmt.Sprintf("assets/%s/original", assetID)
	contentType := mime.TypeByExtension(filepath.Ext(filePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fmt.Printf("Uploading %s to %s/%s...\n", filePath, bucket, key)
	if err := s3Service.PutObject(ctx, key, file, contentType); err != nil {
		log.Fatalf("Failed to upload file: %v", err)
	}

	fmt.Println("Upload successful!")
}

func get(ctx context.Context, s3Service *aws.S3Service, key, bucket string) {
	fmt.Printf("Retrieving %s from %s...\n", key, bucket)

	body, err := s3Service.GetObject(ctx, key)
	if err != nil {
		log.Fatalf("Failed to get object: %v", err)
	}
	defer body.Close()

	outName := filepath.Base(key)
	outFile, err := os.Create(outName)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, body); err != nil {
		log.Fatalf("Failed to save object: %v", err)
	}
	fmt.Printf("Saved to %s\n", outName)
}

func link(ctx context.Context, s3Service *aws.S3Service, key string) {
	url, err := s3Service.GeneratePresignedGetURL(ctx, key, 15*time.Minute)
	if err != nil {
		log.Fatalf("Failed to generate presigned URL: %v", err)
	}
	fmt.Printf("Presigned URL for %s (expires in 15m):\n%s\n", key, url)
}
