package orchestratornode

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	contractx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/contract"
	statex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/state"
)

// RunDataOnly executes every decomposed data sub-task in declared order.
func RunDataOnly(ctx context.Context, in *GraphState, models contractx.Registry) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, ErrNilRun
	}

	in.Context.EnterPhase(statex.PhaseDataOnly)
	if err := runDataSteps(ctx, in, models.Data(), Decompose(in.Context)); err != nil {
		return nil, err
	}
	return in, nil
}

// RunDataThenSupport runs the data stage to completion, then the support
// worker, then drains any sub-task support queued (ticket escalation). The
// support worker never starts before the data stage finishes.
func RunDataThenSupport(ctx context.Context, in *GraphState, models contractx.Registry) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, ErrNilRun
	}

	in.Context.EnterPhase(statex.PhaseDataThenSupport)
	if err := runDataSteps(ctx, in, models.Data(), Decompose(in.Context)); err != nil {
		return nil, err
	}
	if err := runSupport(ctx, in, models.Support()); err != nil {
		return nil, err
	}
	return in, drainQueuedSteps(ctx, in, models.Data())
}

// RunMultiStep partitions the decomposed sub-tasks: independent ones (no
// DependsOn) execute concurrently against forked contexts merged back by
// the orchestrator; dependent ones follow sequentially in declared order.
func RunMultiStep(ctx context.Context, in *GraphState, models contractx.Registry) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, ErrNilRun
	}

	in.Context.EnterPhase(statex.PhaseMultiStep)
	steps := Decompose(in.Context)

	var independent, dependent []statex.SubTask
	for _, step := range steps {
		if len(step.DependsOn) == 0 {
			independent = append(independent, step)
		} else {
			dependent = append(dependent, step)
		}
	}

	data := models.Data()
	if len(independent) > 1 {
		if err := runParallelSteps(ctx, in, data, independent); err != nil {
			return nil, err
		}
	} else if err := runDataSteps(ctx, in, data, independent); err != nil {
		return nil, err
	}

	if err := runDataSteps(ctx, in, data, dependent); err != nil {
		return nil, err
	}
	return in, nil
}

// RunSupportOnly invokes the support worker directly; classification said no
// data retrieval is needed, so the fallback id lookup never ran and the
// advisory works from the query alone.
func RunSupportOnly(ctx context.Context, in *GraphState, models contractx.Registry) (*GraphState, error) {
	if in == nil || in.Context == nil {
		return nil, ErrNilRun
	}

	in.Context.EnterPhase(statex.PhaseSupportOnly)
	if err := runSupport(ctx, in, models.Support()); err != nil {
		return nil, err
	}
	return in, drainQueuedSteps(ctx, in, models.Data())
}

func runDataSteps(ctx context.Context, in *GraphState, data contractx.Specialist, steps []statex.SubTask) error {
	for _, step := range steps {
		in.Log.Append(statex.AgentOrchestrator, statex.AgentDataWorker,
			fmt.Sprintf("dispatching %s (%s)", step.ID, step.Kind))

		resp, err := data.Run(ctx, contractx.SpecialistRequest{
			Context: in.Context,
			Task:    step,
			Log:     in.Log,
		})
		if err != nil {
			return err
		}
		in.Context = resp.Context
	}
	return nil
}

// runParallelSteps fans independent sub-tasks out over forked contexts. Each
// fork owns its own StepResults map; the log is the one shared mutation
// point and serializes appends itself.
func runParallelSteps(ctx context.Context, in *GraphState, data contractx.Specialist, steps []statex.SubTask) error {
	forks := make([]*statex.SharedContext, len(steps))
	g, gctx := errgroup.WithContext(ctx)

	for i, step := range steps {
		forks[i] = in.Context.Fork()
		in.Log.Append(statex.AgentOrchestrator, statex.AgentDataWorker,
			fmt.Sprintf("dispatching %s (%s) concurrently", step.ID, step.Kind))

		fork := forks[i]
		task := step
		g.Go(func() error {
			_, err := data.Run(gctx, contractx.SpecialistRequest{
				Context: fork,
				Task:    task,
				Log:     in.Log,
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, fork := range forks {
		if err := in.Context.Absorb(fork); err != nil {
			return err
		}
	}
	return nil
}

func runSupport(ctx context.Context, in *GraphState, support contractx.Specialist) error {
	in.Log.Append(statex.AgentOrchestrator, statex.AgentSupport, "dispatching support advisory")

	resp, err := support.Run(ctx, contractx.SpecialistRequest{
		Context: in.Context,
		Task:    statex.SubTask{ID: "support", Kind: statex.TaskSupportAdvice},
		Log:     in.Log,
	})
	if err != nil {
		return err
	}
	in.Context = resp.Context
	return nil
}

// drainQueuedSteps hands any sub-tasks the support worker queued (ticket
// escalation) to the data worker.
func drainQueuedSteps(ctx context.Context, in *GraphState, data contractx.Specialist) error {
	steps := in.Context.TakePendingSteps()
	if len(steps) == 0 {
		return nil
	}
	return runDataSteps(ctx, in, data, steps)
}
