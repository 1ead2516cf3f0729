//go:build llama

package engine

import (
	"context"
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// llamaEngine loads models through the in-process llama.cpp bindings.
type llamaEngine struct {
	ctxSize int
	threads int
}

// NewLlama returns an Engine backed by llama.cpp.
func NewLlama(ctxSize, threads int) Engine {
	return &llamaEngine{ctxSize: ctxSize, threads: threads}
}

func (e *llamaEngine) SetCacheLimit(mb int) {
	// llama.cpp sizes its KV cache from the context configuration; there is
	// no separate budget knob in these bindings.
}

func (e *llamaEngine) Load(ctx context.Context, cfg LoadConfig, onProgress func(float64)) (*Handle, error) {
	if strings.TrimSpace(cfg.ModelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	ctxSize := cfg.ContextSize
	if ctxSize <= 0 {
		ctxSize = e.ctxSize
	}
	if onProgress != nil {
		onProgress(0)
	}
	// The bindings do not surface loader progress; report completion only.
	m, err := llama.New(cfg.ModelPath, llama.SetContext(ctxSize))
	if err != nil {
		return nil, err
	}
	if onProgress != nil {
		onProgress(1)
	}
	threads := cfg.Threads
	if threads <= 0 {
		threads = e.threads
	}
	tok := llamaTokenizer{}
	return &Handle{
		Runner:    &llamaRunner{model: m, threads: threads, tok: tok},
		Tokenizer: tok,
	}, nil
}

// llamaTokenizer treats tokens as surface pieces. The runtime tokenizes
// prompts internally, so Encode wraps the whole text in a single token and
// Decode concatenates the pieces streamed back by the sampler.
type llamaTokenizer struct{}

func (llamaTokenizer) Encode(text string) []Token {
	if text == "" {
		return nil
	}
	return []Token{{Piece: text}}
}

func (llamaTokenizer) Decode(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Piece)
	}
	return b.String()
}

type llamaRunner struct {
	model   *llama.LLama
	threads int
	tok     llamaTokenizer
}

func (r *llamaRunner) Generate(ctx context.Context, promptTokens []Token, params Params) TokenStream {
	p := NewPipe(8)
	promptText := r.tok.Decode(promptTokens)
	go func() {
		r.model.SetTokenCallback(func(piece string) bool {
			select {
			case <-ctx.Done():
				return false
			default:
			}
			return p.Emit(Token{Piece: piece})
		})
		_, err := r.model.Predict(promptText, predictOptions(params, r.threads)...)
		if err != nil && p.Stopped() {
			// An aborted predict is the expected outcome of Stop.
			err = nil
		}
		p.Close(err)
	}()
	return p
}

func predictOptions(params Params, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(maxInt(1, params.MaxTokens)),
		llama.SetThreads(maxInt(1, threads)),
	}
	if params.Temperature > 0 {
		po = append(po, llama.SetTemperature(float32(params.Temperature)))
	}
	if params.TopP > 0 {
		po = append(po, llama.SetTopP(float32(params.TopP)))
	}
	if params.Seed != 0 {
		po = append(po, llama.SetSeed(int(params.Seed)))
	}
	return po
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
