// Package session implements the generation session controller: a load-once
// model cache, a single-flight generation guard, a throttled streaming
// decode loop, and the stop policy ending each session.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"chatctl/internal/engine"
	"chatctl/internal/prompt"
)

// DefaultPublishEvery is the publish cadence used when Config leaves it unset.
const DefaultPublishEvery = 4

// Config holds controller tunables.
type Config struct {
	// Stop ends token production.
	Stop StopPolicy
	// PublishEvery is the throttle cadence N: partial output is pushed to
	// the sink only every N-th token. Minimum 1.
	PublishEvery int
	// Params are the sampling knobs forwarded to the engine. Seed is
	// overridden per call.
	Params engine.Params
	// Seed supplies a fresh seed for each call. Defaults to the wall clock
	// so repeated calls with identical input may differ.
	Seed func() int64
}

// Controller drives at most one generation session at a time. A submission
// while a session is running is dropped, never queued. All UI-observable
// state flows through the sink as Update messages; the controller itself has
// no presentation dependencies.
type Controller struct {
	loader *Loader
	sink   Sink
	cfg    Config
	log    zerolog.Logger
	genCh  chan struct{} // size 1: single-flight guard
}

// NewController wires a controller to its loader and update sink.
func NewController(loader *Loader, sink Sink, cfg Config, log zerolog.Logger) *Controller {
	if cfg.PublishEvery <= 0 {
		cfg.PublishEvery = DefaultPublishEvery
	}
	if cfg.Seed == nil {
		cfg.Seed = func() int64 { return time.Now().UnixNano() }
	}
	return &Controller{
		loader: loader,
		sink:   sink,
		cfg:    cfg,
		log:    log,
		genCh:  make(chan struct{}, 1),
	}
}

// Running reports whether a session is in flight.
func (c *Controller) Running() bool { return len(c.genCh) == 1 }

// Generate starts a session for promptText and reports whether it was
// accepted. A duplicate submission while a session is running publishes
// nothing and returns false. Accepted sessions run on their own goroutine to
// natural completion or a caught failure; the controller always returns to
// idle afterwards.
func (c *Controller) Generate(promptText string) bool {
	select {
	case c.genCh <- struct{}{}:
	default:
		c.log.Debug().Msg("session in flight, dropping submission")
		sessionsTotal.WithLabelValues("dropped").Inc()
		return false
	}
	c.sink.Publish(RunningUpdate(true))
	c.sink.Publish(OutputUpdate(""))
	go c.run(promptText)
	return true
}

func (c *Controller) run(promptText string) {
	// The guard is released unconditionally so a failure can never block a
	// later call.
	defer func() {
		c.sink.Publish(RunningUpdate(false))
		<-c.genCh
	}()

	start := time.Now()
	handle, err := c.loader.Load(context.Background(), func(frac float64) {
		c.sink.Publish(StatusUpdate(fmt.Sprintf("Loading model: %d%%", int(frac*100))))
	})
	if err != nil {
		c.fail(err)
		return
	}

	input := prompt.Format(promptText)
	promptTokens := handle.Tokenizer.Encode(input)
	params := c.cfg.Params
	params.MaxTokens = c.cfg.Stop.MaxTokens
	params.Seed = c.cfg.Seed()

	stream := handle.Runner.Generate(context.Background(), promptTokens, params)
	var produced []engine.Token
	stopped := false
	for {
		tok, ok := stream.Next()
		if !ok {
			break
		}
		produced = append(produced, tok)
		// Always decode the full sequence: later tokens can change how
		// earlier ones render.
		text := handle.Tokenizer.Decode(produced)
		last := handle.Tokenizer.Decode([]engine.Token{tok})
		if c.cfg.Stop.ShouldStop(len(produced), last) {
			stream.Stop()
			stopped = true
		}
		if len(produced)%c.cfg.PublishEvery == 0 {
			c.sink.Publish(OutputUpdate(text))
		}
		if stopped {
			break
		}
	}
	if stopped {
		// Wait for the runtime to wind down so its decode state is released
		// before the final flush. Tokens sampled past the stop are discarded.
		for {
			if _, ok := stream.Next(); !ok {
				break
			}
		}
	} else if err := stream.Err(); err != nil {
		c.fail(ErrGeneration(err))
		return
	}

	// Flush-on-stop: the displayed output must match the final decoding
	// regardless of throttle timing.
	final := handle.Tokenizer.Decode(produced)
	c.sink.Publish(OutputUpdate(final))

	tps := tokensPerSec(len(produced), time.Since(start))
	c.sink.Publish(StatusUpdate(fmt.Sprintf("Tokens/second: %.2f", tps)))
	sessionsTotal.WithLabelValues("ok").Inc()
	tokensTotal.Add(float64(len(produced)))
	tokensPerSecond.Set(tps)
	c.log.Info().Int("tokens", len(produced)).Float64("tokens_per_sec", tps).Msg("session complete")
}

// fail replaces any partial output with the failure description and counts
// the session as errored. The deferred guard release still runs.
func (c *Controller) fail(err error) {
	c.log.Error().Err(err).Msg("session failed")
	sessionsTotal.WithLabelValues("error").Inc()
	c.sink.Publish(OutputUpdate(err.Error()))
}
