package main

import (
	"fmt"
	"io"
	"strings"

	"chatctl/internal/session"
)

// renderer applies controller updates to the terminal. apply runs only on
// the dispatcher goroutine, so its fields need no locking.
type renderer struct {
	out  io.Writer // streamed model output
	aux  io.Writer // status lines
	last string
	done chan struct{}
}

func newRenderer(out, aux io.Writer) *renderer {
	return &renderer{out: out, aux: aux, done: make(chan struct{}, 1)}
}

func (r *renderer) apply(u session.Update) {
	if u.Output != nil {
		r.renderOutput(*u.Output)
	}
	if u.Status != nil {
		fmt.Fprintf(r.aux, "[%s]\n", *u.Status)
	}
	if u.Running != nil {
		if *u.Running {
			r.last = ""
		} else {
			select {
			case r.done <- struct{}{}:
			default:
			}
		}
	}
}

// renderOutput prints only the new suffix while the update extends the
// previous text; a re-rendered sequence is reprinted whole.
func (r *renderer) renderOutput(text string) {
	if rest, ok := strings.CutPrefix(text, r.last); ok {
		io.WriteString(r.out, rest)
	} else {
		io.WriteString(r.out, "\n"+text)
	}
	r.last = text
}

// waitIdle blocks until the running session publishes Running=false.
func (r *renderer) waitIdle() { <-r.done }
