// Package enginetest provides scripted engine collaborators for tests: a
// deterministic engine that replays a fixed token sequence and a tokenizer
// with sub-word merge semantics, so full-sequence decoding is observable.
package enginetest

import (
	"context"
	"strings"
	"sync"
	"time"

	"chatctl/internal/engine"
)

// Tokenizer splits on whitespace for Encode and merges pieces on Decode: a
// piece prefixed with "##" glues onto the previous piece without the marker,
// so a token's solo rendering differs from its rendering in a full decode.
type Tokenizer struct{}

func (Tokenizer) Encode(text string) []engine.Token {
	fields := strings.Fields(text)
	toks := make([]engine.Token, 0, len(fields))
	for i, f := range fields {
		piece := f
		if i > 0 {
			piece = " " + f
		}
		toks = append(toks, engine.Token{ID: int32(i), Piece: piece})
	}
	return toks
}

func (Tokenizer) Decode(tokens []engine.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if rest, ok := strings.CutPrefix(t.Piece, "##"); ok {
			b.WriteString(rest)
			continue
		}
		b.WriteString(t.Piece)
	}
	return b.String()
}

// Script is a scripted Engine/Runner: Load hands out a Handle whose Runner
// replays Pieces one token per step. All fields are read by the goroutine
// started in Generate; configure them before use and mutate only between
// sessions.
type Script struct {
	Pieces    []string      // tokens replayed per generation, in order
	LoadErr   error         // returned by Load when set
	GenErr    error         // ends the stream with an error
	FailAfter int           // tokens emitted before GenErr surfaces
	LoadDelay time.Duration // simulated acquisition time
	StepDelay time.Duration // pause between emitted tokens

	mu         sync.Mutex
	loadCalls  int
	genCalls   int
	emitted    int
	stopped    bool
	cacheLimit []int
	progress   []float64
	lastParams engine.Params
}

// New returns a Script replaying the given pieces.
func New(pieces ...string) *Script {
	return &Script{Pieces: pieces}
}

func (s *Script) Load(ctx context.Context, cfg engine.LoadConfig, onProgress func(float64)) (*engine.Handle, error) {
	s.mu.Lock()
	s.loadCalls++
	s.mu.Unlock()
	if s.LoadDelay > 0 {
		select {
		case <-time.After(s.LoadDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	for _, frac := range []float64{0, 0.5, 1} {
		if onProgress != nil {
			onProgress(frac)
		}
		s.mu.Lock()
		s.progress = append(s.progress, frac)
		s.mu.Unlock()
	}
	return &engine.Handle{Runner: &scriptRunner{s: s}, Tokenizer: Tokenizer{}}, nil
}

func (s *Script) SetCacheLimit(mb int) {
	s.mu.Lock()
	s.cacheLimit = append(s.cacheLimit, mb)
	s.mu.Unlock()
}

// LoadCalls reports how many acquisitions were performed.
func (s *Script) LoadCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCalls
}

// GenCalls reports how many generations were started.
func (s *Script) GenCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.genCalls
}

// Emitted reports how many tokens the last generation produced.
func (s *Script) Emitted() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emitted
}

// Stopped reports whether the consumer signaled an early stop.
func (s *Script) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// CacheLimits returns every SetCacheLimit call in order.
func (s *Script) CacheLimits() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.cacheLimit...)
}

// Progress returns the progress fractions reported during loads.
func (s *Script) Progress() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.progress...)
}

// LastParams returns the sampling params of the most recent generation.
func (s *Script) LastParams() engine.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastParams
}

type scriptRunner struct {
	s *Script
}

func (r *scriptRunner) Generate(ctx context.Context, promptTokens []engine.Token, params engine.Params) engine.TokenStream {
	s := r.s
	s.mu.Lock()
	s.genCalls++
	s.emitted = 0
	s.stopped = false
	s.lastParams = params
	pieces := append([]string(nil), s.Pieces...)
	genErr := s.GenErr
	failAfter := s.FailAfter
	step := s.StepDelay
	s.mu.Unlock()

	p := engine.NewPipe(0)
	go func() {
		for i, piece := range pieces {
			if genErr != nil && i >= failAfter {
				p.Close(genErr)
				return
			}
			if step > 0 {
				time.Sleep(step)
			}
			if !p.Emit(engine.Token{ID: int32(i), Piece: piece}) {
				s.mu.Lock()
				s.stopped = true
				s.mu.Unlock()
				p.Close(nil)
				return
			}
			s.mu.Lock()
			s.emitted++
			s.mu.Unlock()
		}
		if genErr != nil {
			p.Close(genErr)
			return
		}
		p.Close(nil)
	}()
	return p
}
