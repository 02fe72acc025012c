package live

import (
	"context"

	"github.com/julianstephens/dayreview/internal/logger"
)

// Loader reads the current value of a live query.
type Loader[T any] func(ctx context.Context) (T, error)

// Watch runs load immediately and again after every Publish on topics,
// emitting each result. A failed load emits the zero value and is logged.
// The channel is closed when ctx ends. The loop runs on g.
func Watch[T any](ctx context.Context, g *Group, hub *Hub, load Loader[T], topics ...Topic) <-chan T {
	out := make(chan T, 1)
	// subscribe before the first load so a write racing it is not lost
	signal := hub.Subscribe(ctx, topics...)

	g.Go(func() {
		defer close(out)
		for {
			if ctx.Err() != nil {
				return
			}
			v, err := load(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				logger.Warn("live query failed", "topics", topics, "error", err)
				var zero T
				v = zero
			}
			emitLatest(out, v)

			select {
			case <-ctx.Done():
				return
			case <-signal:
			}
		}
	})
	return out
}

// Switch follows key and, for each distinct key value, subscribes to
// fn(ctx, key). A key change cancels the previous inner stream and drops
// any of its values not yet read, so no stale value is seen after the
// switch. fn should start its streams on g too.
func Switch[K comparable, V any](ctx context.Context, g *Group, key *State[K], fn func(context.Context, K) <-chan V) <-chan V {
	out := make(chan V, 1)
	changes := key.Changes(ctx)

	g.Go(func() {
		defer close(out)
		for {
			k := key.Get()
			innerCtx, cancel := context.WithCancel(ctx)
			inner := fn(innerCtx, k)

		follow:
			for {
				select {
				case <-ctx.Done():
					cancel()
					return
				case <-changes:
					if key.Get() != k {
						cancel()
						select {
						case <-out:
						default:
						}
						break follow
					}
				case v, ok := <-inner:
					if !ok {
						inner = nil
						continue
					}
					emitLatest(out, v)
				}
			}
		}
	})
	return out
}

// Map transforms every value of in.
func Map[T, U any](ctx context.Context, g *Group, in <-chan T, fn func(T) U) <-chan U {
	out := make(chan U, 1)
	g.Go(func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					return
				}
				emitLatest(out, fn(v))
			}
		}
	})
	return out
}
