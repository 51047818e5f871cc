package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/contract"
	nodex "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/nodes/orchestrator"
	statex "github.com/tanpawarit/Chative-Cycling-Trip-Planner/agent/state"
	logx "github.com/tanpawarit/Chative-Cycling-Trip-Planner/pkg/logger"
)

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidThread  = nodex.ErrInvalidThread
)

type Config struct {
	// ThreadIDs generates ids for requests without a usable one.
	ThreadIDs statex.ThreadIDs
	Now       func() time.Time
}

// Reply is the outcome of one turn.
type Reply struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

type Orchestrator struct {
	store    statex.Store
	reasoner contractx.Reasoner
	tools    contractx.ToolGateway

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	threadIDs statex.ThreadIDs
	locks     statex.KeyedMutex

	now func() time.Time
}

func New(
	store statex.Store,
	reasoner contractx.Reasoner,
	tools contractx.ToolGateway,
	cfg Config,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if reasoner == nil {
		return nil, errors.New("reasoner is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	o := &Orchestrator{
		store:     store,
		reasoner:  reasoner,
		tools:     tools,
		threadIDs: cfg.ThreadIDs,
		now:       now,
	}

	graphRunner, err := o.compileHandleMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// HandleMessage runs one turn. A missing or malformed thread id is replaced
// by a fresh one, and turns on the same thread run one at a time. Nothing is
// persisted unless the turn produced a reply.
func (o *Orchestrator) HandleMessage(ctx context.Context, threadID string, text string) (Reply, error) {
	if strings.TrimSpace(text) == "" {
		return Reply{}, ErrInvalidMessage
	}

	id, generated := o.threadIDs.Normalize(threadID)
	if generated && strings.TrimSpace(threadID) != "" {
		logx.Info().
			Str("requested_thread_id", threadID).
			Str("thread_id", id).
			Msg("replaced malformed thread id")
	}

	unlock, err := o.locks.Lock(ctx, id)
	if err != nil {
		return Reply{ThreadID: id}, err
	}
	defer unlock()

	started := o.now()
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		ThreadID: id,
		Text:     text,
	})
	if err != nil {
		logx.Warn().
			Err(err).
			Str("thread_id", id).
			Str("kind", string(contractx.KindOf(err))).
			Msg("turn failed")
		return Reply{ThreadID: id}, err
	}

	logx.Info().
		Str("thread_id", out.ThreadID).
		Int64("version", out.Version).
		Dur("elapsed", o.now().Sub(started)).
		Msg("turn committed")

	return Reply{ThreadID: out.ThreadID, Message: out.Reply}, nil
}
