package push

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	fcm "github.com/appleboy/go-fcm"
)

type FCMClient struct {
	client *fcm.Client
}

// NewFCMClient creates a Firebase Cloud Messaging client from a service
// account credentials file.
func NewFCMClient(ctx context.Context, credentialsFile string) (*FCMClient, error) {
	client, err := fcm.NewClient(ctx, fcm.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	return &FCMClient{client: client}, nil
}

// SendPushNotification sends a push notification to a specific device token
func (f *FCMClient) SendPushNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Token: token,
	}
	resp, err := f.client.Send(ctx, msg)
	if err != nil {
		return err
	}
	if resp.FailureCount > 0 && len(resp.Responses) > 0 && resp.Responses[0].Error != nil {
		return fmt.Errorf("fcm: %w", resp.Responses[0].Error)
	}
	return nil
}
