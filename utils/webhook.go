package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/Kariqs/agronexus-api/models"
	"github.com/go-resty/resty/v2"
)

const orderPlacedEvent = "order.placed"

type webhookPayload struct {
	Event string       `json:"event"`
	Order models.Order `json:"order"`
}

// WebhookNotifier POSTs every placed order to a configured URL.
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	client := resty.New().
		SetTimeout(30*time.Second).
		SetRetryCount(2).
		SetHeader("Accept", "application/json")
	return &WebhookNotifier{client: client, url: url}
}

func (n *WebhookNotifier) OrderPlaced(ctx context.Context, order models.Order) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(webhookPayload{Event: orderPlacedEvent, Order: order}).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("order webhook request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("order webhook failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}
