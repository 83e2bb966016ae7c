package service

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"

	"abracadamots/internal/models"
)

// sesSender is the part of the SES client the email service uses
type sesSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService sends end-of-session reports via Amazon SES
type EmailService struct {
	client    sesSender
	fromEmail string
	reportTo  string
	enabled   bool
}

// NewEmailService creates a new email service. It is disabled when no
// report recipient is configured.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, reportTo string) (*EmailService, error) {
	if reportTo == "" || fromEmail == "" {
		log.Info().Msg("email reports disabled: EMAIL_REPORT_TO not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info().Str("from", fromEmail).Str("region", awsRegion).Msg("email reports enabled")
	return newEmailService(sesv2.NewFromConfig(cfg), fromEmail, reportTo), nil
}

func newEmailService(client sesSender, fromEmail, reportTo string) *EmailService {
	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		reportTo:  reportTo,
		enabled:   true,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendSessionReport mails the caregiver a child's progress after a finished session
func (s *EmailService) SendSessionReport(ctx context.Context, childName string, progress models.ChildProgress) error {
	if !s.enabled {
		log.Debug().Str("child", childName).Msg("skipping session report, email disabled")
		return nil
	}

	subject := fmt.Sprintf("Abracadamots: %s finished a session", childName)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #7c3aed; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.score { font-size: 32px; font-weight: bold; text-align: center; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Session finished</h1>
		</div>
		<div class="content">
			<p>%s just finished a spelling session.</p>
			<p class="score">%d / %d</p>
			<p>words mastered across all of their lists.</p>
		</div>
		<div class="footer">
			<p>This is an automated email from Abracadamots. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(childName), progress.MasteredWords, progress.TotalWords)

	textBody := fmt.Sprintf(`%s just finished a spelling session.

Words mastered across all of their lists: %d / %d

This is an automated email from Abracadamots. Please do not reply.
`, childName, progress.MasteredWords, progress.TotalWords)

	return s.sendEmail(ctx, s.reportTo, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info().Str("to", toEmail).Str("message_id", aws.ToString(result.MessageId)).Msg("email sent")
	return nil
}
