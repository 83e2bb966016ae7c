package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abracadamots/internal/models"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestEmailService_Disabled(t *testing.T) {
	svc, err := NewEmailService(context.Background(), "eu-west-3", "noreply@example.com", "")
	require.NoError(t, err)
	assert.False(t, svc.IsEnabled())
	assert.NoError(t, svc.SendSessionReport(context.Background(), "Léa", models.ChildProgress{}))
}

func TestEmailService_SendSessionReport(t *testing.T) {
	ses := &fakeSES{}
	svc := newEmailService(ses, "noreply@example.com", "parent@example.com")

	err := svc.SendSessionReport(context.Background(), "Léa <3", models.ChildProgress{MasteredWords: 4, TotalWords: 10})
	require.NoError(t, err)
	require.Len(t, ses.inputs, 1)

	input := ses.inputs[0]
	assert.Equal(t, "noreply@example.com", aws.ToString(input.FromEmailAddress))
	assert.Equal(t, []string{"parent@example.com"}, input.Destination.ToAddresses)
	assert.Contains(t, aws.ToString(input.Content.Simple.Subject.Data), "Léa <3")

	htmlBody := aws.ToString(input.Content.Simple.Body.Html.Data)
	assert.Contains(t, htmlBody, "Léa &lt;3")
	assert.Contains(t, htmlBody, "4 / 10")
	assert.True(t, strings.Contains(aws.ToString(input.Content.Simple.Body.Text.Data), "4 / 10"))
}

func TestEmailService_SendFailure(t *testing.T) {
	ses := &fakeSES{err: errors.New("throttled")}
	svc := newEmailService(ses, "noreply@example.com", "parent@example.com")

	err := svc.SendSessionReport(context.Background(), "Léa", models.ChildProgress{})
	assert.ErrorContains(t, err, "throttled")
}
