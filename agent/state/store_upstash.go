package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	errx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/errx"
	logx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/logger"
)

const maxResponseSizeBytes = 2 << 20

type UpstashRedisConfig struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// UpstashStore keeps threads in Upstash Redis through its REST API using
// the same key layout as RedisStore. Each operation is sent to the
// multi-exec endpoint so it runs as one transaction.
type UpstashStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
	ttl        time.Duration
	now        func() time.Time
}

var _ Store = (*UpstashStore)(nil)

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewUpstashStore(cfg UpstashRedisConfig, opts ...StoreOption) (*UpstashStore, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	o := applyOptions(opts)
	if o.ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: timeout}
	}

	return &UpstashStore{
		baseURL:    baseURL,
		token:      token,
		httpClient: o.httpClient,
		keyPrefix:  o.keyPrefix,
		ttl:        o.ttl,
		now:        o.now,
	}, nil
}

func (s *UpstashStore) Resolve(ctx context.Context, threadID string) (*ThreadState, error) {
	turnsKey, metaKey, err := threadKeys(s.keyPrefix, threadID)
	if err != nil {
		return nil, err
	}
	now := formatTime(s.now())

	cmds := [][]any{
		{"HSETNX", metaKey, fieldCreatedAt, now},
		{"HSETNX", metaKey, fieldUpdatedAt, now},
		{"HSETNX", metaKey, fieldVersion, "0"},
	}
	cmds = append(cmds, s.expireCommands(turnsKey, metaKey)...)
	cmds = append(cmds,
		[]any{"HGETALL", metaKey},
		[]any{"LRANGE", turnsKey, 0, -1},
	)

	return s.run(ctx, threadID, cmds)
}

func (s *UpstashStore) Append(ctx context.Context, threadID string, turns ...contractx.Turn) (*ThreadState, error) {
	if len(turns) == 0 {
		return nil, ErrNoTurns
	}
	turnsKey, metaKey, err := threadKeys(s.keyPrefix, threadID)
	if err != nil {
		return nil, err
	}
	payloads, err := encodeTurns(turns)
	if err != nil {
		return nil, err
	}
	now := formatTime(s.now())

	cmds := [][]any{
		{"HSETNX", metaKey, fieldCreatedAt, now},
		append([]any{"RPUSH", turnsKey}, payloads...),
		{"HINCRBY", metaKey, fieldVersion, 1},
		{"HSET", metaKey, fieldUpdatedAt, now},
	}
	cmds = append(cmds, s.expireCommands(turnsKey, metaKey)...)
	cmds = append(cmds,
		[]any{"HGETALL", metaKey},
		[]any{"LRANGE", turnsKey, 0, -1},
	)

	return s.run(ctx, threadID, cmds)
}

// run executes cmds whose last two entries are HGETALL meta and LRANGE turns.
func (s *UpstashStore) run(ctx context.Context, threadID string, cmds [][]any) (*ThreadState, error) {
	replies, err := s.multiExec(ctx, cmds)
	if err != nil {
		logx.Error().Err(err).Str("thread_id", threadID).Msg("upstash transaction failed")
		return nil, errx.WrapRedis(err)
	}
	if len(replies) != len(cmds) {
		return nil, errx.WrapRedis(fmt.Errorf("upstash returned %d replies for %d commands", len(replies), len(cmds)))
	}

	var flat []string
	if err := json.Unmarshal(replies[len(replies)-2].Result, &flat); err != nil {
		return nil, fmt.Errorf("decode thread metadata: %w", err)
	}
	meta := make(map[string]string, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		meta[flat[i]] = flat[i+1]
	}

	var rows []string
	if err := json.Unmarshal(replies[len(replies)-1].Result, &rows); err != nil {
		return nil, fmt.Errorf("decode thread turns: %w", err)
	}

	return decodeThread(threadID, meta, rows)
}

func (s *UpstashStore) expireCommands(keys ...string) [][]any {
	if s.ttl <= 0 {
		return nil
	}
	cmds := make([][]any, 0, len(keys))
	for _, key := range keys {
		cmds = append(cmds, []any{"EXPIRE", key, ttlSeconds(s.ttl)})
	}
	return cmds
}

func (s *UpstashStore) multiExec(ctx context.Context, commands [][]any) ([]redisRESTResponse, error) {
	if s == nil {
		return nil, errors.New("nil store")
	}
	if len(commands) == 0 {
		return nil, errors.New("empty redis transaction")
	}

	body, err := json.Marshal(commands)
	if err != nil {
		return nil, fmt.Errorf("marshal redis commands: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/multi-exec", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed []redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	for i, r := range parsed {
		if r.Error != "" {
			return nil, fmt.Errorf("redis command %d: %s", i, r.Error)
		}
	}
	return parsed, nil
}
