package engine

import "sync"

// Pipe is a channel-backed TokenStream shared by engine implementations.
// The producer calls Emit for each token and Close exactly once at the end;
// the consumer uses the TokenStream side.
type Pipe struct {
	tokens   chan Token
	stop     chan struct{}
	stopOnce sync.Once
	err      error // written by Close before tokens is closed
}

// NewPipe returns a stream with the given producer-side buffer.
func NewPipe(buf int) *Pipe {
	return &Pipe{
		tokens: make(chan Token, buf),
		stop:   make(chan struct{}),
	}
}

// Next blocks until a token is available or the stream ends.
func (p *Pipe) Next() (Token, bool) {
	t, ok := <-p.tokens
	return t, ok
}

// Stop signals the producer to cease sampling. Safe to call more than once.
func (p *Pipe) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// Err reports a production failure. Valid only after Next returned ok=false.
func (p *Pipe) Err() error { return p.err }

// Emit hands one token to the consumer. It reports false once Stop was
// called; the producer must then wind down and call Close.
func (p *Pipe) Emit(t Token) bool {
	select {
	case <-p.stop:
		return false
	case p.tokens <- t:
		return true
	}
}

// Stopped reports whether the consumer requested an early stop.
func (p *Pipe) Stopped() bool {
	select {
	case <-p.stop:
		return true
	default:
		return false
	}
}

// Close ends the stream, recording err when production failed.
func (p *Pipe) Close(err error) {
	p.err = err
	close(p.tokens)
}
