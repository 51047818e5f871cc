package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	openaisdk "github.com/openai/openai-go"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if NewClient(Config{APIKey: "  "}) != nil {
		t.Fatal("NewClient() without key should be nil")
	}
}

func TestNewClientSendsOpenRouterHeaders(t *testing.T) {
	t.Parallel()

	var gotReferer, gotTitle, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c","object":"chat.completion","created":1,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"ok"}}]}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{
		BaseURL:  server.URL + "/",
		APIKey:   "or-key",
		SiteURL:  "https://trips.example",
		SiteName: "Cycling Trip Planner",
	})
	if client == nil {
		t.Fatal("NewClient() = nil")
	}

	_, err := client.Chat.Completions.New(context.Background(), openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel("m"),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{openaisdk.UserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("Chat.Completions.New() error = %v", err)
	}
	if gotReferer != "https://trips.example" || gotTitle != "Cycling Trip Planner" || gotAuth != "Bearer or-key" {
		t.Fatalf("headers referer=%q title=%q auth=%q", gotReferer, gotTitle, gotAuth)
	}
}

func TestNewRequiresModel(t *testing.T) {
	t.Parallel()

	cfg := &Config{APIKey: "k"}
	if _, err := cfg.New(context.Background()); err == nil {
		t.Fatal("New() without model: error = nil")
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := (Config{APIKey: "k", Model: "m"}).Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if err := (Config{Model: "m"}).Validate(); err == nil {
		t.Fatal("Validate() without key: error = nil")
	}
	if err := (Config{APIKey: "k", Model: "m", Temperature: -1}).Validate(); err == nil {
		t.Fatal("Validate() with negative temperature: error = nil")
	}
}

func TestHeaderTransportAddsAttribution(t *testing.T) {
	t.Parallel()

	var gotTitle string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("X-Title")
	}))
	t.Cleanup(server.Close)

	cfg := Config{SiteName: "Cycling Trip Planner"}
	client := &http.Client{Transport: headerTransport{headers: cfg.attribution(), next: http.DefaultTransport}}

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	resp.Body.Close()

	if gotTitle != "Cycling Trip Planner" {
		t.Fatalf("X-Title = %q", gotTitle)
	}
	if req.Header.Get("X-Title") != "" {
		t.Fatal("transport mutated the caller's request")
	}
}
