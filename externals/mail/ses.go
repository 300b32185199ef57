package mail

import (
	"context"
	"fmt"

	"hiringdesk/core/config"
	"hiringdesk/core/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscredentials "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Message is one outbound email, already rendered.
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
	ReplyTo string
}

// MailerInterface delivers transactional email.
type MailerInterface interface {
	Send(ctx context.Context, msg Message) error
}

// Mailer sends through Amazon SES.
type Mailer struct {
	client *sesv2.Client
	from   string
}

func NewMailer(cfg config.AWSConfig, from string) *Mailer {
	client := sesv2.New(sesv2.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			awscredentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	})
	return &Mailer{client: client, from: from}
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.Body)},
				},
			},
		},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send to %s: %w", msg.To, err)
	}
	return nil
}

// LogMailer is the development fallback when SES is not configured. It logs
// instead of sending so flows stay testable without credentials.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	logger.Info("LogMailer:Send", "to", msg.To, "subject", msg.Subject)
	return nil
}
