package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"volt-sentinel/battery"
	"volt-sentinel/logger"
)

// Webhook delivers finished battery reports to an external endpoint.
type Webhook struct {
	url        string
	signKey    string
	httpClient *http.Client
	log        logger.Logger
	retryCount int
}

// WebhookConfig holds report webhook configuration.
type WebhookConfig struct {
	URL        string
	SignKey    string
	Timeout    time.Duration
	RetryCount int
}

// NewWebhook creates a report webhook delivery client.
func NewWebhook(cfg WebhookConfig, log logger.Logger) *Webhook {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	retryCount := cfg.RetryCount
	if retryCount == 0 {
		retryCount = 3
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Webhook{
		url:        cfg.URL,
		signKey:    cfg.SignKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		retryCount: retryCount,
	}
}

// Enabled reports whether a destination URL is configured.
func (wh *Webhook) Enabled() bool { return wh.url != "" }

// Deliver posts the report JSON to the configured endpoint. Any 2xx
// response counts as delivered; other outcomes are retried with linear
// backoff until the attempts run out or ctx is cancelled.
func (wh *Webhook) Deliver(ctx context.Context, report *battery.Report) error {
	if wh.url == "" {
		return fmt.Errorf("no webhook url configured")
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	var lastErr error
	for i := 0; i < wh.retryCount; i++ {
		if i > 0 {
			delay := time.NewTimer(time.Duration(i) * time.Second)
			select {
			case <-ctx.Done():
				delay.Stop()
				return ctx.Err()
			case <-delay.C:
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, wh.url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if wh.signKey != "" {
			req.Header.Set("X-Volt-Signature", wh.sign(body))
		}

		resp, err := wh.httpClient.Do(req)
		if err != nil {
			lastErr = err
			wh.log.Warn("webhook.retry", logger.Int("attempt", i+1), logger.Err(err))
			continue
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1MB max
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			wh.log.Info("webhook.sent",
				logger.String("vehicle_id", report.VehicleID),
				logger.Int("status", resp.StatusCode),
			)
			return nil
		}

		lastErr = fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
		wh.log.Warn("webhook.retry", logger.Int("attempt", i+1), logger.Err(lastErr))
	}

	return fmt.Errorf("webhook delivery failed after %d attempts: %w", wh.retryCount, lastErr)
}

func (wh *Webhook) sign(body []byte) string {
	h := hmac.New(sha256.New, []byte(wh.signKey))
	h.Write(body)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
