// Copyright (c) Microsoft. All rights reserved.

package agents

import (
	"context"
	"sync"
)

// EventStream is a pull-based iterator over values produced by a
// background goroutine, used for server-sent run events. It hides the
// channel plumbing behind Next/Collect and guarantees the producer is
// stopped and drained on Close.
//
// Callers must call Close when done, or use a context with cancellation.
type EventStream[T any] struct {
	ch        <-chan T
	errCh     <-chan error
	cancel    context.CancelFunc
	closeOnce sync.Once
	err       error
}

// NewEventStream starts producer in a goroutine and returns a stream over
// the values it sends. The producer's channel is closed when it returns;
// a non-nil return error is surfaced by Next once the values are drained.
func NewEventStream[T any](ctx context.Context, producer func(ctx context.Context, ch chan<- T) error) *EventStream[T] {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan T, 1) // small buffer to reduce goroutine blocking
	errCh := make(chan error, 1)

	go func() {
		defer close(ch)
		if err := producer(ctx, ch); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	return &EventStream[T]{
		ch:     ch,
		errCh:  errCh,
		cancel: cancel,
	}
}

// Next returns the next value from the stream. ok is false once the
// stream is exhausted; err then carries the producer's failure, if any.
func (s *EventStream[T]) Next(ctx context.Context) (val T, ok bool, err error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	case v, open := <-s.ch:
		if !open {
			s.captureErr()
			var zero T
			return zero, false, s.err
		}
		return v, true, nil
	}
}

// Collect drains the entire stream and returns all values.
func (s *EventStream[T]) Collect(ctx context.Context) ([]T, error) {
	var items []T
	for {
		val, ok, err := s.Next(ctx)
		if err != nil {
			return items, err
		}
		if !ok {
			return items, nil
		}
		items = append(items, val)
	}
}

// Err returns the producer error observed so far. It is only meaningful
// after Next has reported exhaustion or after Close.
func (s *EventStream[T]) Err() error { return s.err }

// Close cancels the producer, drains any buffered values, and releases
// resources. Safe to call multiple times.
func (s *EventStream[T]) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		for range s.ch {
		}
		s.captureErr()
	})
	return nil
}

func (s *EventStream[T]) captureErr() {
	select {
	case e := <-s.errCh:
		if s.err == nil {
			s.err = e
		}
	default:
	}
}
