// Copyright (c) Microsoft. All rights reserved.

package agents

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEventStreamCollect(t *testing.T) {
	stream := NewEventStream(context.Background(), func(_ context.Context, ch chan<- int) error {
		for i := 1; i <= 3; i++ {
			ch <- i
		}
		return nil
	})
	defer stream.Close()

	items, err := stream.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(items) != 3 || items[0] != 1 || items[2] != 3 {
		t.Errorf("Collect() = %v, want [1 2 3]", items)
	}
}

func TestEventStreamNextExhausted(t *testing.T) {
	stream := NewEventStream(context.Background(), func(_ context.Context, ch chan<- string) error {
		ch <- "only"
		return nil
	})
	defer stream.Close()

	val, ok, err := stream.Next(context.Background())
	if err != nil || !ok || val != "only" {
		t.Fatalf("Next() = (%q, %v, %v), want (only, true, nil)", val, ok, err)
	}

	_, ok, err = stream.Next(context.Background())
	if ok {
		t.Error("Next() after exhaustion: ok = true, want false")
	}
	if err != nil {
		t.Errorf("Next() after clean exhaustion: err = %v, want nil", err)
	}
}

func TestEventStreamProducerError(t *testing.T) {
	wantErr := errors.New("producer failed")
	stream := NewEventStream(context.Background(), func(_ context.Context, ch chan<- int) error {
		ch <- 1
		return wantErr
	})
	defer stream.Close()

	items, err := stream.Collect(context.Background())
	if !errors.Is(err, wantErr) {
		t.Errorf("Collect() err = %v, want %v", err, wantErr)
	}
	if len(items) != 1 {
		t.Errorf("Collect() items = %v, want the value sent before the failure", items)
	}
	if !errors.Is(stream.Err(), wantErr) {
		t.Errorf("Err() = %v, want %v", stream.Err(), wantErr)
	}
}

func TestEventStreamCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stream := NewEventStream(ctx, func(ctx context.Context, _ chan<- int) error {
		<-ctx.Done()
		return ctx.Err()
	})
	defer stream.Close()

	cancel()
	_, _, err := stream.Next(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Next() err = %v, want context.Canceled", err)
	}
}

func TestEventStreamCloseUnblocksProducer(t *testing.T) {
	done := make(chan struct{})
	stream := NewEventStream(context.Background(), func(ctx context.Context, ch chan<- int) error {
		defer close(done)
		for i := 0; ; i++ {
			select {
			case ch <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	if err := stream.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("producer did not stop after Close()")
	}

	// Close is idempotent.
	if err := stream.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}
