package services

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// SMSSender sends a text message to a phone number
type SMSSender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// SMSService sends text messages through the TextLocal HTTP API.
// No retries; a transport error or non-2xx status fails the call.
type SMSService struct {
	client *resty.Client
	apiKey string
}

// NewSMSService creates an SMS gateway against the given base URL
func NewSMSService(baseURL, apiKey string) *SMSService {
	return &SMSService{
		client: resty.New().SetBaseURL(baseURL),
		apiKey: apiKey,
	}
}

// Send posts a form-encoded message to the gateway
func (s *SMSService) Send(ctx context.Context, phoneNumber, message string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"apiKey":  s.apiKey,
			"numbers": phoneNumber,
			"message": message,
		}).
		Post("/send/")
	if err != nil {
		return fmt.Errorf("failed to call SMS gateway: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("SMS gateway returned status %d: %s", resp.StatusCode(), resp.String())
	}

	log.Debug().
		Str("phone_number", phoneNumber).
		Int("status", resp.StatusCode()).
		Msg("SMS gateway response")

	return nil
}
