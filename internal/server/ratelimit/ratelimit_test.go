package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/cases", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_BurstThenLimited(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/cases", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		},
	})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("1.2.3.4", "/cases", "POST")
		require.True(t, allowed, "request %d within burst", i)
		assert.Equal(t, 10, info.Limit)
	}

	allowed, info := l.Allow("1.2.3.4", "/cases", "POST")
	assert.False(t, allowed)
	assert.Positive(t, info.RetryAfter)
}

func TestLimiter_ClientsIsolated(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/cases", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
		},
	})
	defer l.Stop()

	allowed, _ := l.Allow("1.1.1.1", "/cases", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("1.1.1.1", "/cases", "POST")
	require.False(t, allowed, "first client exhausted its burst")

	allowed, _ = l.Allow("2.2.2.2", "/cases", "POST")
	assert.True(t, allowed, "second client has its own bucket")
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
	})
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{name: "case creation exact", path: "/cases", method: "POST", wantLimit: 10},
		{name: "case message prefix", path: "/cases/abc/messages", method: "POST", wantLimit: 30},
		{name: "case retry prefix", path: "/cases/abc/retry", method: "POST", wantLimit: 30},
		{name: "newsletter subscribe", path: "/newsletter/subscribe", method: "POST", wantLimit: 10},
		{name: "case read falls through", path: "/cases/abc", method: "GET", wantNil: true},
		{name: "verse read falls through", path: "/verses", method: "GET", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestMatchEndpoint_Health(t *testing.T) {
	got := MatchEndpoint("/health", "GET", DefaultEndpointConfigs())
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Limit)
}
