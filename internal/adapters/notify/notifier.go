package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"iamin/config"
	"iamin/internal/domain"
)

// NewNotifier creates a notifier from config. Provider "ses" delivers join
// notifications over AWS SES; "noop" or unknown logs and delivers nothing.
func NewNotifier(cfg config.NotifierConfig, logger *slog.Logger) (domain.Notifier, error) {
	switch cfg.Provider {
	case "ses":
		if cfg.RecipientDomain == "" {
			return nil, fmt.Errorf("ses notifier requires NOTIFY_RECIPIENT_DOMAIN")
		}
		if cfg.SES.InsecureSkipVerify {
			logger.Warn("TLS certificate verification is disabled for SES; use only in development")
		}
		httpClient := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: cfg.SES.InsecureSkipVerify,
					MinVersion:         tls.VersionTLS12,
				},
			},
		}
		awsCfg := aws.Config{
			Region: cfg.SES.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					cfg.SES.AccessKeyID,
					cfg.SES.SecretAccessKey,
					"",
				),
			),
			HTTPClient: httpClient,
		}
		return &sesNotifier{
			client:          ses.NewFromConfig(awsCfg),
			fromAddress:     cfg.FromAddress,
			fromName:        cfg.FromName,
			recipientDomain: cfg.RecipientDomain,
			logger:          logger,
		}, nil
	case "noop":
		return &noopNotifier{logger: logger}, nil
	default:
		logger.Warn("unknown notifier provider, using noop", "provider", cfg.Provider)
		return &noopNotifier{logger: logger}, nil
	}
}

type sesNotifier struct {
	client          *ses.Client
	fromAddress     string
	fromName        string
	recipientDomain string
	logger          *slog.Logger
}

func (n *sesNotifier) Notify(ctx context.Context, recipient domain.Identity, subject, body string) error {
	source := n.fromAddress
	if n.fromName != "" {
		source = fmt.Sprintf("%s <%s>", n.fromName, n.fromAddress)
	}
	// Recipient addresses are handle-derived on the configured domain.
	to := fmt.Sprintf("%s@%s", recipient.Username, n.recipientDomain)
	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}
	result, err := n.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("send notification via SES: %w", err)
	}
	n.logger.Debug("notification sent via SES", "to", to, "message_id", aws.ToString(result.MessageId))
	return nil
}

type noopNotifier struct {
	logger *slog.Logger
}

func (n *noopNotifier) Notify(ctx context.Context, recipient domain.Identity, subject, body string) error {
	n.logger.Info("notification would be sent (noop)", "recipient_fid", recipient.FID, "subject", subject)
	return nil
}
