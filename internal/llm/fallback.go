package llm

import (
	"context"
	"fmt"
	"log"
)

// FallbackClient attempts the primary provider and, on failure, retries
// once against the fallback provider. The fallback is never consulted
// when the primary succeeds, so a safety refusal from the primary is
// not silently retried elsewhere.
type FallbackClient struct {
	primary  Client
	fallback Client // nil when fallback is disabled
}

// WithFallback wraps primary with an optional fallback provider.
// Passing a nil fallback disables the second attempt.
func WithFallback(primary, fallback Client) *FallbackClient {
	return &FallbackClient{primary: primary, fallback: fallback}
}

// Generate calls the primary provider, falling back on error.
func (c *FallbackClient) Generate(ctx context.Context, system, user string) (string, error) {
	text, err := c.primary.Generate(ctx, system, user)
	if err == nil {
		return text, nil
	}

	if c.fallback == nil {
		return "", fmt.Errorf("%w: primary %s: %v", ErrAllProvidersFailed, c.primary.Name(), err)
	}

	log.Printf("[llm] primary provider %s failed, trying fallback %s: %v",
		c.primary.Name(), c.fallback.Name(), err)

	text, fbErr := c.fallback.Generate(ctx, system, user)
	if fbErr != nil {
		return "", fmt.Errorf("%w: primary %s: %v; fallback %s: %v",
			ErrAllProvidersFailed, c.primary.Name(), err, c.fallback.Name(), fbErr)
	}
	return text, nil
}

// Name returns the primary provider's identifier. Prompt variant
// selection keys off the primary even when the fallback answered.
func (c *FallbackClient) Name() Provider {
	return c.primary.Name()
}

// Close closes both providers.
func (c *FallbackClient) Close() error {
	err := c.primary.Close()
	if c.fallback != nil {
		if fbErr := c.fallback.Close(); err == nil {
			err = fbErr
		}
	}
	return err
}
