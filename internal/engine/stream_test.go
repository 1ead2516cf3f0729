package engine

import (
	"errors"
	"testing"
)

func TestPipeDeliversInOrder(t *testing.T) {
	p := NewPipe(4)
	go func() {
		for i := 0; i < 3; i++ {
			p.Emit(Token{ID: int32(i)})
		}
		p.Close(nil)
	}()
	for i := 0; i < 3; i++ {
		tok, ok := p.Next()
		if !ok || tok.ID != int32(i) {
			t.Fatalf("token %d: got %+v ok=%v", i, tok, ok)
		}
	}
	if _, ok := p.Next(); ok {
		t.Fatalf("expected exhausted stream")
	}
	if p.Err() != nil {
		t.Fatalf("unexpected error: %v", p.Err())
	}
}

func TestPipeStopUnblocksProducer(t *testing.T) {
	p := NewPipe(0)
	emitted := make(chan bool, 1)
	go func() {
		// No consumer reads; Emit must return false after Stop.
		emitted <- p.Emit(Token{ID: 1})
		p.Close(nil)
	}()
	p.Stop()
	if <-emitted {
		t.Fatalf("expected Emit to report stop")
	}
	if !p.Stopped() {
		t.Fatalf("expected Stopped")
	}
	if _, ok := p.Next(); ok {
		t.Fatalf("expected closed stream")
	}
}

func TestPipeErrAfterClose(t *testing.T) {
	want := errors.New("boom")
	p := NewPipe(0)
	go p.Close(want)
	if _, ok := p.Next(); ok {
		t.Fatalf("expected no tokens")
	}
	if !errors.Is(p.Err(), want) {
		t.Fatalf("expected %v, got %v", want, p.Err())
	}
}

func TestPipeStopIdempotent(t *testing.T) {
	p := NewPipe(0)
	p.Stop()
	p.Stop()
}
