package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/contract"
	nodex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/nodes"
	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
	logx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/logger"
)

var (
	ErrEmptyQuery = nodex.ErrEmptyQuery
)

// Result is the full outcome of one run: the synthesized response, the
// ordered communication log, and the final shared context. On FAILED all
// three still carry whatever the run produced before the error.
type Result struct {
	FinalResponse string
	Log           []statex.Entry
	Context       *statex.SharedContext
}

// Orchestrator owns the run state machine. One instance serves many queries;
// each Handle call builds a fresh SharedContext and CommunicationLog.
type Orchestrator struct {
	models   contractx.Registry
	notifier contractx.Notifier

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
	log zerolog.Logger
}

func New(models contractx.Registry, notifier contractx.Notifier) (*Orchestrator, error) {
	if models == nil {
		return nil, errors.New("agent registry is required")
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}

	o := &Orchestrator{
		models:   models,
		notifier: notifier,
		now:      time.Now,
		log:      logx.Component(statex.AgentOrchestrator),
	}

	graphRunner, err := o.compileHandleQueryGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Handle routes one query start to finish. An unrecoverable error moves the
// run to FAILED and still returns the partial log and context alongside an
// explanatory response; err then tells the caller what broke.
func (o *Orchestrator) Handle(ctx context.Context, query string) (Result, error) {
	runID := uuid.NewString()
	sc := statex.NewSharedContext(runID, query, o.now())
	comlog := statex.NewCommunicationLog()

	o.log.Info().Str("run_id", runID).Str("query", query).Msg("run started")

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{Context: sc, Log: comlog})
	if err != nil {
		return o.fail(sc, comlog, err), err
	}

	o.notifyEscalations(ctx, out.Context)

	o.log.Info().
		Str("run_id", runID).
		Str("phase", string(out.Context.Phase)).
		Int("log_entries", out.Log.Len()).
		Msg("run complete")

	return Result{
		FinalResponse: out.Response,
		Log:           out.Log.Snapshot(),
		Context:       out.Context,
	}, nil
}

// fail moves the run to its terminal error state. Partial progress stays
// observable: the accumulated log, the context as the workers left it, and
// an explanatory response instead of a silent empty result.
func (o *Orchestrator) fail(sc *statex.SharedContext, comlog *statex.CommunicationLog, cause error) Result {
	sc.EnterPhase(statex.PhaseFailed)
	comlog.Append(statex.AgentOrchestrator, "", "run failed: "+cause.Error())

	response := "I ran into a problem while processing your request: " + cause.Error() +
		". Partial progress is included in the run log."
	if sc.FinalResponse == "" {
		// a synthesis failure may already have set it
		_ = sc.SetFinalResponse(response)
	}

	o.log.Error().
		Err(cause).
		Str("run_id", sc.RunID).
		Str("phase", string(sc.Phase)).
		Msg("run failed")

	return Result{
		FinalResponse: sc.FinalResponse,
		Log:           comlog.Snapshot(),
		Context:       sc,
	}
}

// notifyEscalations pushes any tickets the run created at high priority to
// the notifier. Best effort: a delivery failure is logged, never surfaced.
func (o *Orchestrator) notifyEscalations(ctx context.Context, sc *statex.SharedContext) {
	for _, res := range sc.StepResults {
		if res.Kind != statex.TaskCreateTicket || res.Ticket == nil || res.Ticket.Priority != "high" {
			continue
		}
		if err := o.notifier.NotifyTicket(ctx, res.Ticket); err != nil {
			o.log.Warn().
				Err(err).
				Int64("ticket_id", res.Ticket.ID).
				Msg("ticket notification failed")
		}
	}
}

func pathNodeFor(in *nodex.GraphState) string {
	switch in.Route {
	case statex.PhaseDataThenSupport:
		return "run_data_then_support"
	case statex.PhaseMultiStep:
		return "run_multi_step"
	case statex.PhaseSupportOnly:
		return "run_support_only"
	default:
		return "run_data_only"
	}
}

type noopNotifier struct{}

func (noopNotifier) NotifyTicket(context.Context, *statex.Ticket) error { return nil }
