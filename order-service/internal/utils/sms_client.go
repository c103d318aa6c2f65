package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Messenger delivers a text message to a phone number.
type Messenger interface {
	Send(ctx context.Context, phone, text string) error
}

type TwilioMessenger struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioMessenger(accountSID, authToken, from string) *TwilioMessenger {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioMessenger{client: client, from: from}
}

func (m *TwilioMessenger) Send(ctx context.Context, phone, text string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(m.from)
	params.SetBody(text)

	// the twilio client takes no context, so honour cancellation around it
	done := make(chan error, 1)
	go func() {
		resp, err := m.client.Api.CreateMessage(params)
		if err == nil && resp.Sid != nil {
			log.Printf("[SMS] Sent message %s to %s", *resp.Sid, phone)
		}
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("twilio: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogMessenger only logs; used when Twilio credentials are not configured.
type LogMessenger struct{}

func (LogMessenger) Send(_ context.Context, phone, text string) error {
	log.Printf("[SMS] (dry-run) to=%s text=%q", phone, text)
	return nil
}

// SendWithTimeout bounds a single delivery attempt.
func SendWithTimeout(ctx context.Context, m Messenger, timeout time.Duration, phone, text string) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return m.Send(ctx, phone, text)
}
