package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nurpe/snowops-contracts/internal/model"
)

// Webhook posts notifications as JSON to the notification service.
type Webhook struct {
	client *resty.Client
	url    string
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Webhook{client: client, url: url}
}

func (w *Webhook) Notify(ctx context.Context, notification model.Notification) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(notification).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("notification service responded %d", resp.StatusCode())
	}
	return nil
}
