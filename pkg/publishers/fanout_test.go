package publishers

import (
	"context"
	"errors"
	"testing"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, PageEvent) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: TypeHTTP}
	bad := &stubPublisher{id: "bad", typ: TypeHTTP, err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, nil, bad})

	if fanout.Size() != 2 {
		t.Fatalf("nil publishers should be skipped, size %d", fanout.Size())
	}

	count, err := fanout.Publish(context.Background(), PageEvent{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("every publisher should be called once")
	}

	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !ok.closed || !bad.closed {
		t.Fatalf("closers were not released")
	}
}

func TestEmptyFanoutIsNoop(t *testing.T) {
	var fanout *Fanout
	count, err := fanout.Publish(context.Background(), PageEvent{})
	if count != 0 || err != nil {
		t.Fatalf("nil fanout should be a no-op, got %d %v", count, err)
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com", TimeoutSeconds: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].Type() != TypeHTTP {
		t.Fatalf("unexpected publishers %v", pubs)
	}

	if _, err := BuildAll(context.Background(), reg, []PublisherConfig{{ID: "k", Type: "kafka"}}, nil); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
