package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/dispatch"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/llm"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/prompt"
	statex "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/state"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/tool"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/trip"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/tripdata"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/api"
	configx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/config"
	logx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/logger"
	_ "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/openrouter"
	redisx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/redis"
)

const (
	backendMemory  = "memory"
	backendRedis   = "redis"
	backendUpstash = "upstash"
)

type AppConfig struct {
	HTTPAddr          string        `envconfig:"HTTP_ADDR" default:":8000"`
	ChatTimeout       time.Duration `envconfig:"CHAT_TIMEOUT" default:"120s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	MaxParallelTools  int           `envconfig:"MAX_PARALLEL_TOOLS" default:"4"`
	ScheduleCacheSize int           `envconfig:"SCHEDULE_CACHE_SIZE" default:"256"`
	StateBackend      string        `envconfig:"STATE_BACKEND" default:"memory"`
	StateTTL          time.Duration `envconfig:"STATE_TTL" default:"24h"`
	StateKeyPrefix    string        `envconfig:"STATE_KEY_PREFIX" default:"trip:thread:"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logx.Fatal().Err(err).Msg("trip planner stopped")
	}
}

func run(ctx context.Context) error {
	appCfg := configx.MustNew[AppConfig]("")

	store, closeStore, err := newStore(ctx, *appCfg)
	if err != nil {
		return err
	}
	defer closeStore()

	catalog, err := tripdata.LoadEmbedded()
	if err != nil {
		return fmt.Errorf("load trip data: %w", err)
	}
	scheduler, err := trip.NewScheduler(appCfg.ScheduleCacheSize)
	if err != nil {
		return err
	}
	registry, err := tool.NewTripRegistry(catalog, scheduler)
	if err != nil {
		return fmt.Errorf("build tool registry: %w", err)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pipeline, err := dispatch.New(registry, dispatch.Config{MaxParallel: appCfg.MaxParallelTools},
		dispatch.WithMetrics(dispatch.NewMetrics(promRegistry)))
	if err != nil {
		return err
	}

	reasoner, err := newReasoner(ctx, registry.Specs())
	if err != nil {
		return err
	}

	orch, err := orchestrator.New(store, reasoner, pipeline, orchestrator.Config{})
	if err != nil {
		return err
	}

	server, err := api.NewServer(orch, api.Options{
		Addr:        appCfg.HTTPAddr,
		ChatTimeout: appCfg.ChatTimeout,
		Gatherer:    promRegistry,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().
			Str("addr", appCfg.HTTPAddr).
			Str("state_backend", appCfg.StateBackend).
			Strs("tools", registry.Names()).
			Msg("trip planner listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func newStore(ctx context.Context, cfg AppConfig) (statex.Store, func(), error) {
	opts := []statex.StoreOption{
		statex.WithKeyPrefix(cfg.StateKeyPrefix),
		statex.WithTTL(cfg.StateTTL),
	}

	switch strings.ToLower(strings.TrimSpace(cfg.StateBackend)) {
	case backendMemory, "":
		return statex.NewMemoryStore(), func() {}, nil
	case backendRedis:
		redisCfg := configx.MustNew[redisx.Config]("REDIS")
		client, err := redisCfg.New(ctx)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logx.Warn().Err(err).Msg("close redis client")
			}
		}
		return statex.NewRedisStore(client, opts...), closeFn, nil
	case backendUpstash:
		upstashCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
		store, err := statex.NewUpstashStore(*upstashCfg, opts...)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown STATE_BACKEND %q", cfg.StateBackend)
	}
}

func newReasoner(ctx context.Context, specs []contractx.ToolSpec) (contractx.Reasoner, error) {
	llmCfg, err := configx.New[llm.Config]("")
	if err != nil {
		return nil, err
	}

	var orCfg *openrouterx.Config
	if llmCfg.ProviderName() != llm.ProviderAnthropic {
		if orCfg, err = configx.New[openrouterx.Config]("OPENROUTER"); err != nil {
			return nil, err
		}
	}

	reasoner, err := llm.New(ctx, *llmCfg, orCfg, specs, prompt.LoadPromptSet())
	if err != nil {
		return nil, err
	}
	logx.Info().Str("provider", llmCfg.ProviderName()).Msg("reasoner ready")
	return reasoner, nil
}
