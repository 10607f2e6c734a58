package services

import (
	"context"
	"fmt"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

const pushTitle = "Emergency Alert"

// PushResult is the gateway's answer to a single notification
type PushResult struct {
	ApnsID     string `json:"apns_id"`
	StatusCode int    `json:"status_code"`
	Reason     string `json:"reason,omitempty"`
}

// PushSender forwards a message to a device token
type PushSender interface {
	Send(ctx context.Context, deviceToken, message string) (*PushResult, error)
}

// PushService sends push notifications through APNs
type PushService struct {
	client *apns2.Client
	topic  string
}

// NewPushService creates a token-authenticated APNs client
func NewPushService(keyFile, keyID, teamID, topic string, production bool) (*PushService, error) {
	authKey, err := token.AuthKeyFromFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   keyID,
		TeamID:  teamID,
	})
	if production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &PushService{
		client: client,
		topic:  topic,
	}, nil
}

// Send pushes an alert notification to a device and returns the gateway
// response verbatim. Delivery is not tracked beyond this response.
func (s *PushService) Send(ctx context.Context, deviceToken, message string) (*PushResult, error) {
	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       s.topic,
		Payload: payload.NewPayload().
			AlertTitle(pushTitle).
			AlertBody(message),
	}

	res, err := s.client.PushWithContext(ctx, notification)
	if err != nil {
		return nil, fmt.Errorf("failed to send notification: %w", err)
	}

	result := &PushResult{
		ApnsID:     res.ApnsID,
		StatusCode: res.StatusCode,
		Reason:     res.Reason,
	}
	if !res.Sent() {
		return result, fmt.Errorf("notification rejected: %s", res.Reason)
	}

	return result, nil
}
