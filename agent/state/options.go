package state

import (
	"net/http"
	"strings"
	"time"
)

type storeOptions struct {
	keyPrefix  string
	ttl        time.Duration
	httpClient *http.Client
	now        func() time.Time
}

// StoreOption customizes the durable stores.
type StoreOption func(*storeOptions)

func WithKeyPrefix(prefix string) StoreOption {
	return func(o *storeOptions) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			o.keyPrefix = trimmed
		}
	}
}

// WithTTL sets the idle expiry of a thread. Zero disables expiry.
func WithTTL(ttl time.Duration) StoreOption {
	return func(o *storeOptions) {
		o.ttl = ttl
	}
}

// WithHTTPClient is only used by UpstashStore.
func WithHTTPClient(client *http.Client) StoreOption {
	return func(o *storeOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

func WithClock(now func() time.Time) StoreOption {
	return func(o *storeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(opts []StoreOption) storeOptions {
	o := storeOptions{
		keyPrefix: defaultStoreKeyPrefix,
		ttl:       defaultStoreTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func threadKeys(prefix, threadID string) (turnsKey, metaKey string, err error) {
	if strings.TrimSpace(threadID) == "" {
		return "", "", ErrInvalidThread
	}
	base := prefix + threadID
	return base + ":turns", base + ":meta", nil
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := ttl / time.Second
	if seconds <= 0 {
		return 1
	}
	if ttl%time.Second != 0 {
		seconds++
	}
	return int64(seconds)
}
