package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
)

func TestFromError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"invalid input", fmt.Errorf("%w: message must not be empty", contractx.ErrInvalidInput), http.StatusBadRequest, "invalid input: message must not be empty"},
		{"external", fmt.Errorf("%w: anthropic: 529 overloaded", contractx.ErrExternalFailure), http.StatusBadGateway, UpstreamErrorMessage},
		{"deadline", fmt.Errorf("plan: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, TimeoutErrorMessage},
		{"storage", WrapRedis(errors.New("dial tcp: connection refused")), http.StatusBadGateway, RedisErrorMessage},
		{"unclassified", errors.New("nil map write"), http.StatusInternalServerError, SystemErrorMessage},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := FromError(tc.err)
			if got.Status != tc.wantStatus || got.Message != tc.wantMsg {
				t.Fatalf("FromError() = (%d, %q), want (%d, %q)", got.Status, got.Message, tc.wantStatus, tc.wantMsg)
			}
			if !errors.Is(got, tc.err) && got.Err != tc.err {
				t.Fatalf("FromError() lost the cause")
			}
		})
	}

	if FromError(nil) != nil {
		t.Fatal("FromError(nil) != nil")
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := fmt.Errorf("resolve: %w", WrapRedis(cause))
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is did not reach the cause")
	}
	if WrapRedis(nil) != nil {
		t.Fatal("WrapRedis(nil) != nil")
	}
}
