package sleeper_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/draftpilot/go/clients"
)

// Options configures a SleeperClient.
type Options struct {
	BaseURL         string
	Timeout         time.Duration
	RateLimitPerSec float64
	Burst           int
}

// DefaultOptions stays well below Sleeper's documented 1000 req/min ceiling.
func DefaultOptions() Options {
	return Options{
		BaseURL:         DefaultBaseURL,
		Timeout:         10 * time.Second,
		RateLimitPerSec: 5,
		Burst:           2,
	}
}

// SleeperClient reads drafts, leagues and players from the Sleeper API.
// It needs no credentials.
type SleeperClient struct {
	*clients.BaseClient
}

func NewSleeperClient(opts Options) *SleeperClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	base := clients.NewBaseClient(opts.BaseURL)
	base.SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		base.SetTimeout(opts.Timeout)
	}
	base.SetRateLimit(opts.RateLimitPerSec, opts.Burst)
	return &SleeperClient{BaseClient: base}
}

// getJSON fetches endpoint into out. A literal null body is reported as
// ErrInvalidDraftReference when notFoundOnNull is set, since Sleeper
// answers unknown ids with 200 null.
func (c *SleeperClient) getJSON(ctx context.Context, op, endpoint string, out any, notFoundOnNull bool) error {
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return wrapError(op, err)
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		if notFoundOnNull {
			return &ProviderError{Op: op, Kind: ErrInvalidDraftReference}
		}
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ProviderError{Op: op, Kind: ErrProviderUnavailable, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
