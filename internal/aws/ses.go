package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/koassets/rights-backend/internal/config"
)

type EmailService struct {
	client    *ses.Client
	fromEmail string
}

func NewEmailService(cfg config.AWSConfig) (*EmailService, error) {
	awsCfg, err := LoadAWSConfig(cfg)
	if err != nil {
		return nil, err
	}

	client := ses.NewFromConfig(awsCfg, func(o *ses.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = awssdk.String(cfg.EndpointURL)
		}
	})

	return &EmailService{
		client:    client,
		fromEmail: cfg.FromEmail,
	}, nil
}

func (s *EmailService) Sender() string {
	return s.fromEmail
}

func (s *EmailService) SendEmail(ctx context.Context, to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Body: &types.Body{
				Html: &types.Content{
					Data: awssdk.String(body),
				},
			},
			Subject: &types.Content{
				Data: awssdk.String(subject),
			},
		},
		Source: awssdk.String(s.fromEmail),
	}

	_, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}

	return nil
}

// VerifyEmailIdentity registers the sender address. Only needed against
// localstack; production identities are managed outside the app.
func (s *EmailService) VerifyEmailIdentity(ctx context.Context) (string, error) {
	_, err := s.client.VerifyEmailIdentity(ctx, &ses.VerifyEmailIdentityInput{
		EmailAddress: awssdk.String(s.fromEmail),
	})
	if err != nil {
		return "", fmt.Errorf("failed to verify email identity: %w", err)
	}
	return s.fromEmail, nil
}
