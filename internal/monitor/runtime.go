package monitor

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunSession supervises one monitoring session: the detection loop and the
// sink worker run until the context is cancelled, the source is exhausted
// or the loop fails. The sink is always given a chance to drain queued
// events before RunSession returns, so detection shutdown never loses
// events that were already emitted.
func RunSession(ctx context.Context, cycle *DetectionCycle, source FrameSource, sink *AsyncSink) error {
	g, ctx := errgroup.WithContext(ctx)

	// sinkCtx outlives the detection loop so the drain pass runs after
	// the last tick has delivered its batch.
	sinkCtx, stopSink := context.WithCancel(context.Background())
	defer stopSink()

	g.Go(func() error {
		return sink.Run(sinkCtx)
	})

	g.Go(func() error {
		defer stopSink()
		return cycle.Run(ctx, source, sink)
	})

	return g.Wait()
}
