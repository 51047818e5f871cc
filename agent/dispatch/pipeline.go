package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	"github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/tool"
	logx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultMaxParallel = 4

	internalFaultMessage = "the tool failed unexpectedly"
	canceledMessage      = "request canceled before the tool ran"
)

// Stage is a step in the life of one tool call request.
type Stage string

const (
	StageReceived  Stage = "received"
	StageValidated Stage = "validated"
	StageExecuting Stage = "executing"
	StageSucceeded Stage = "succeeded"
	StageFailed    Stage = "failed"
)

type Config struct {
	MaxParallel int
}

// Pipeline executes tool call requests against a registry. Each request
// yields exactly one result; a failing request never affects the others.
type Pipeline struct {
	registry    *tool.Registry
	maxParallel int
	metrics     *Metrics
	now         func() time.Time
}

var _ contractx.ToolGateway = (*Pipeline)(nil)

type Option func(*Pipeline)

func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func New(registry *tool.Registry, cfg Config, opts ...Option) (*Pipeline, error) {
	if registry == nil {
		return nil, errors.New("tool registry is required")
	}
	maxParallel := cfg.MaxParallel
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallel
	}

	p := &Pipeline{
		registry:    registry,
		maxParallel: maxParallel,
		now:         time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p, nil
}

// Execute runs reqs with bounded concurrency and returns results in request
// order. The error is non-nil only when ctx ended before every request ran;
// the results are still complete in that case.
func (p *Pipeline) Execute(ctx context.Context, reqs []contractx.ToolCallRequest) ([]contractx.ToolCallResult, error) {
	results := make([]contractx.ToolCallResult, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}

	var g errgroup.Group
	g.SetLimit(p.maxParallel)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			results[i] = p.run(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("%w: tool dispatch interrupted: %w", contractx.ErrExternalFailure, err)
	}
	return results, nil
}

func (p *Pipeline) run(ctx context.Context, req contractx.ToolCallRequest) (res contractx.ToolCallResult) {
	started := p.now()
	res = contractx.ToolCallResult{ID: req.ID, Tool: req.Tool, Args: req.Args}
	p.transition(req, StageReceived)

	defer func() {
		if r := recover(); r != nil {
			logx.Error().
				Str("tool", req.Tool).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("tool panicked")
			res = fail(res, contractx.KindInternalFault, internalFaultMessage)
		}
		res.Duration = p.now().Sub(started)
		if res.Succeeded() {
			p.transition(req, StageSucceeded)
		} else {
			p.transition(req, StageFailed)
		}
		p.metrics.observe(res, res.Duration)
	}()

	if ctx.Err() != nil {
		return fail(res, contractx.KindExternalFailure, canceledMessage)
	}

	def, ok := p.registry.Lookup(strings.TrimSpace(req.Tool))
	if !ok {
		return fail(res, contractx.KindInvalidInput, fmt.Sprintf("unknown tool %q", req.Tool))
	}
	if err := def.Validate(req.Args); err != nil {
		return fail(res, contractx.KindInvalidInput, err.Error())
	}
	p.transition(req, StageValidated)

	p.transition(req, StageExecuting)
	out, err := def.Invoke(ctx, req.Args)
	if err != nil {
		return p.failFromError(res, err)
	}

	res.Status = contractx.ToolCallSucceeded
	res.Output = out
	return res
}

// failFromError keeps caller-facing messages for input and lookup errors
// and hides everything else behind a generic message.
func (p *Pipeline) failFromError(res contractx.ToolCallResult, err error) contractx.ToolCallResult {
	kind := contractx.KindOf(err)
	switch kind {
	case contractx.KindInvalidInput, contractx.KindNotFound:
		return fail(res, kind, err.Error())
	case contractx.KindExternalFailure:
		logx.Warn().Err(err).Str("tool", res.Tool).Msg("tool dependency failed")
		return fail(res, kind, "a dependency of the tool is unavailable")
	default:
		logx.Error().Err(err).Str("tool", res.Tool).Interface("args", res.Args).Msg("tool failed")
		return fail(res, contractx.KindInternalFault, internalFaultMessage)
	}
}

func (p *Pipeline) transition(req contractx.ToolCallRequest, stage Stage) {
	logx.Debug().
		Str("tool", req.Tool).
		Str("call_id", req.ID).
		Str("stage", string(stage)).
		Msg("tool call")
}

func fail(res contractx.ToolCallResult, kind contractx.FailureKind, msg string) contractx.ToolCallResult {
	res.Status = contractx.ToolCallFailed
	res.Output = nil
	res.Failure = &contractx.Failure{Kind: kind, Message: msg}
	return res
}
