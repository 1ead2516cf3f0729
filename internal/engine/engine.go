// Package engine defines the inference-runtime collaborators of the session
// controller: weight acquisition, token production, and tokenization. The
// controller depends only on these interfaces; concrete runtimes live behind
// build tags.
package engine

import "context"

// Token is one unit sampled by the runtime. ID is the vocabulary index when
// the runtime exposes one. Piece is the raw surface form of this single
// token; it may render differently inside a full-sequence decode.
type Token struct {
	ID    int32
	Piece string
}

// Tokenizer converts between text and token sequences. Decode must be given
// the full accumulated sequence: sub-word merging can change how earlier
// tokens render once later ones arrive.
type Tokenizer interface {
	Encode(text string) []Token
	Decode(tokens []Token) string
}

// Params are the sampling knobs for one generation call. Seed is injected
// fresh by the caller on every call.
type Params struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
	Seed        int64
}

// TokenStream is a finite, non-restartable sequence of sampled tokens.
// Next blocks for the next token and reports ok=false once the stream is
// exhausted; Err may then report a runtime failure. Stop tells the runtime
// to cease sampling and release decode state; the stream ends shortly after.
// Err is only meaningful after Next returned ok=false.
type TokenStream interface {
	Next() (Token, bool)
	Stop()
	Err() error
}

// Runner produces tokens for a prepared prompt. The production loop runs on
// the runtime's own worker goroutine.
type Runner interface {
	Generate(ctx context.Context, promptTokens []Token, params Params) TokenStream
}

// Handle bundles loaded weights and their tokenizer. Immutable once
// constructed and shared read-only across generation calls.
type Handle struct {
	Runner    Runner
	Tokenizer Tokenizer
}

// LoadConfig describes the weights to acquire.
type LoadConfig struct {
	ModelPath   string
	ContextSize int
	Threads     int
}

// Engine acquires model weights. Load is slow; callers memoize the handle.
type Engine interface {
	// Load acquires the model. onProgress, when non-nil, receives fractional
	// completion in [0,1] for display.
	Load(ctx context.Context, cfg LoadConfig, onProgress func(float64)) (*Handle, error)
	// SetCacheLimit adjusts the runtime's cache budget in MB. The loader
	// applies it at most once, before the first acquisition.
	SetCacheLimit(mb int)
}
