//go:build !llama

package engine

// This file provides a no-CGO stub for the llama engine. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real engine lives in llama.go (tagged 'llama').

import (
	"context"
	"errors"
)

var llamaBuilt = false

type llamaEngine struct {
	ctxSize int
	threads int
}

// NewLlama returns an Engine that fails fast: llama support was not built.
func NewLlama(ctxSize, threads int) Engine {
	return &llamaEngine{ctxSize: ctxSize, threads: threads}
}

func (e *llamaEngine) SetCacheLimit(mb int) {}

func (e *llamaEngine) Load(ctx context.Context, cfg LoadConfig, onProgress func(float64)) (*Handle, error) {
	return nil, errors.New("llama support not built (missing 'llama' build tag)")
}
