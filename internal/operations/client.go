// Package operations posts aggregated data to the deployment runtime's
// operations endpoint, grounded in the teacher's CI-runner resty client.
package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/deployrt/scmcore/pkg/logger"
)

// Client is the contract the core depends on for posting to the
// operations endpoint. relativePath is joined against the configured
// base URL; body is marshaled as the JSON request payload.
type Client interface {
	Post(ctx context.Context, relativePath string, body any) error
}

// Config holds the operations endpoint's connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// RestyClient implements Client over a resty.Client with a bounded
// retry policy, the same shape as the teacher's CI-runner client.
type RestyClient struct {
	cfg    Config
	client *resty.Client
	log    *logger.Logger
}

// NewRestyClient builds a RestyClient from cfg.
func NewRestyClient(cfg Config) *RestyClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	if cfg.APIKey != "" {
		client.SetHeader("X-API-Key", cfg.APIKey)
	}

	return &RestyClient{cfg: cfg, client: client, log: logger.Get()}
}

// Post sends body as JSON to <BaseURL><relativePath>.
func (c *RestyClient) Post(ctx context.Context, relativePath string, body any) error {
	url := c.cfg.BaseURL + relativePath

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(url)
	if err != nil {
		return fmt.Errorf("operations post to %s: %w", relativePath, err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("operations endpoint %s returned status %d: %s", relativePath, resp.StatusCode(), resp.String())
	}

	c.log.Debug("posted to operations endpoint",
		logger.String("path", relativePath),
		logger.Int("status", resp.StatusCode()),
	)
	return nil
}
