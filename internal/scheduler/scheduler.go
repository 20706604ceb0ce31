// Package scheduler provides the execution strategies the batch executor
// delegates to. A strategy decides how the independent units of work run —
// one after another or across a worker pool — while the executor keeps
// ownership of where outcomes are stored.
package scheduler

import (
	"context"
	"sync"

	"github.com/specialistvlad/tunegridgo/internal/result"
)

// Unit is one independent piece of work: execute a single workflow entry.
// Units never depend on each other and never write shared state; they return
// their outcome and the orchestrator stores it.
type Unit struct {
	Index int
	ID    string
	Run   func(ctx context.Context) result.Outcome
}

// Strategy executes a batch of units and returns their outcomes indexed like
// the input. Units not executed before ctx is cancelled stay NotRun.
type Strategy interface {
	Execute(ctx context.Context, units []Unit) []result.Outcome
}

// Sequential runs units one at a time in order. It is the default strategy.
type Sequential struct{}

// Execute implements Strategy.
func (Sequential) Execute(ctx context.Context, units []Unit) []result.Outcome {
	outcomes := make([]result.Outcome, len(units))
	for i, unit := range units {
		if ctx.Err() != nil {
			break
		}
		outcomes[i] = unit.Run(ctx)
	}
	return outcomes
}

// Pool runs units across a fixed number of workers. Outcomes land in the
// slot matching each unit's position, so storage order is independent of
// completion order.
type Pool struct {
	Workers int
}

// Execute implements Strategy.
func (p Pool) Execute(ctx context.Context, units []Unit) []result.Outcome {
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]result.Outcome, len(units))
	work := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range work {
				if ctx.Err() != nil {
					continue
				}
				outcomes[i] = units[i].Run(ctx)
			}
		}()
	}

	for i := range units {
		work <- i
	}
	close(work)
	wg.Wait()

	return outcomes
}
