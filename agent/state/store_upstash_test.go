package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	errx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/errx"
)

// fakeUpstash interprets the handful of commands UpstashStore sends.
type fakeUpstash struct {
	mu       sync.Mutex
	hashes   map[string]map[string]string
	lists    map[string][]string
	expires  map[string]int64
	requests [][][]any
	paths    []string
	auth     string
}

func newFakeUpstash() *fakeUpstash {
	return &fakeUpstash{
		hashes:  map[string]map[string]string{},
		lists:   map[string][]string{},
		expires: map[string]int64{},
	}
}

func (f *fakeUpstash) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var cmds [][]any
	if err := json.NewDecoder(r.Body).Decode(&cmds); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, cmds)
	f.paths = append(f.paths, r.URL.Path)
	f.auth = r.Header.Get("Authorization")

	replies := make([]map[string]any, len(cmds))
	for i, cmd := range cmds {
		result, err := f.apply(cmd)
		if err != nil {
			replies[i] = map[string]any{"error": err.Error()}
			continue
		}
		replies[i] = map[string]any{"result": result}
	}
	_ = json.NewEncoder(w).Encode(replies)
}

func (f *fakeUpstash) apply(cmd []any) (any, error) {
	args := make([]string, len(cmd))
	for i, a := range cmd {
		args[i] = fmt.Sprint(a)
	}
	hash := func(key string) map[string]string {
		h, ok := f.hashes[key]
		if !ok {
			h = map[string]string{}
			f.hashes[key] = h
		}
		return h
	}

	switch args[0] {
	case "HSETNX":
		h := hash(args[1])
		if _, ok := h[args[2]]; ok {
			return 0, nil
		}
		h[args[2]] = args[3]
		return 1, nil
	case "HSET":
		hash(args[1])[args[2]] = args[3]
		return 1, nil
	case "HINCRBY":
		h := hash(args[1])
		cur, _ := strconv.ParseInt(h[args[2]], 10, 64)
		by, _ := strconv.ParseInt(args[3], 10, 64)
		h[args[2]] = strconv.FormatInt(cur+by, 10)
		return cur + by, nil
	case "HGETALL":
		flat := []string{}
		for k, v := range f.hashes[args[1]] {
			flat = append(flat, k, v)
		}
		return flat, nil
	case "RPUSH":
		f.lists[args[1]] = append(f.lists[args[1]], args[2:]...)
		return len(f.lists[args[1]]), nil
	case "LRANGE":
		out := f.lists[args[1]]
		if out == nil {
			out = []string{}
		}
		return out, nil
	case "EXPIRE":
		secs, _ := strconv.ParseInt(args[2], 10, 64)
		f.expires[args[1]] = secs
		return 1, nil
	default:
		return nil, fmt.Errorf("ERR unknown command '%s'", args[0])
	}
}

func newTestUpstashStore(t *testing.T, handler http.Handler, opts ...StoreOption) *UpstashStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts = append([]StoreOption{WithHTTPClient(server.Client())}, opts...)
	store, err := NewUpstashStore(UpstashRedisConfig{URL: server.URL, Token: "token"}, opts...)
	if err != nil {
		t.Fatalf("NewUpstashStore() error = %v", err)
	}
	return store
}

func TestUpstashStore(t *testing.T) {
	t.Parallel()

	fake := newFakeUpstash()
	exerciseStore(t, newTestUpstashStore(t, fake))

	if fake.auth != "Bearer token" {
		t.Fatalf("Authorization = %q", fake.auth)
	}
	for _, p := range fake.paths {
		if p != "/multi-exec" {
			t.Fatalf("request path = %q, want /multi-exec", p)
		}
	}
}

func TestUpstashStoreKeysAndTTL(t *testing.T) {
	t.Parallel()

	fake := newFakeUpstash()
	store := newTestUpstashStore(t, fake, WithKeyPrefix("planner:"), WithTTL(90*time.Minute+time.Millisecond))

	if _, err := store.Append(context.Background(), "trip-1", userTurn("hi")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if _, ok := fake.lists["planner:trip-1:turns"]; !ok {
		t.Fatalf("turns key missing: %v", fake.lists)
	}
	if fake.hashes["planner:trip-1:meta"][fieldVersion] != "1" {
		t.Fatalf("meta = %v", fake.hashes["planner:trip-1:meta"])
	}
	if got := fake.expires["planner:trip-1:turns"]; got != 5401 {
		t.Fatalf("EXPIRE seconds = %d, want 5401", got)
	}
}

func TestUpstashStoreWithoutTTLSkipsExpire(t *testing.T) {
	t.Parallel()

	fake := newFakeUpstash()
	store := newTestUpstashStore(t, fake, WithTTL(0))
	if _, err := store.Resolve(context.Background(), "t"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(fake.expires) != 0 {
		t.Fatalf("unexpected EXPIRE calls: %v", fake.expires)
	}
}

func TestUpstashStoreCommandError(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"result":1},{"error":"WRONGTYPE Operation against a key holding the wrong kind of value"}]`)
	})
	store := newTestUpstashStore(t, handler)

	_, err := store.Resolve(context.Background(), "t")
	var appErr *errx.AppError
	if !errors.As(err, &appErr) || appErr.Status != http.StatusBadGateway {
		t.Fatalf("Resolve() error = %v, want AppError 502", err)
	}
}

func TestUpstashStoreHTTPError(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
	store := newTestUpstashStore(t, handler)

	if _, err := store.Append(context.Background(), "t", userTurn("hi")); err == nil {
		t.Fatal("Append() error = nil, want error")
	}
}

func TestNewUpstashStoreValidatesConfig(t *testing.T) {
	t.Parallel()

	cases := []UpstashRedisConfig{
		{URL: "", Token: "t"},
		{URL: "not a url", Token: "t"},
		{URL: "https://example.upstash.io", Token: " "},
	}
	for _, cfg := range cases {
		if _, err := NewUpstashStore(cfg); err == nil {
			t.Fatalf("NewUpstashStore(%+v) error = nil", cfg)
		}
	}
	if _, err := NewUpstashStore(UpstashRedisConfig{URL: "https://example.upstash.io", Token: "t"}, WithTTL(-time.Second)); err == nil {
		t.Fatal("negative ttl accepted")
	}
}

func TestTTLSeconds(t *testing.T) {
	t.Parallel()

	cases := map[time.Duration]int64{
		time.Millisecond:        1,
		time.Second:             1,
		1500 * time.Millisecond: 2,
		24 * time.Hour:          86400,
	}
	for in, want := range cases {
		if got := ttlSeconds(in); got != want {
			t.Fatalf("ttlSeconds(%v) = %d, want %d", in, got, want)
		}
	}
}
