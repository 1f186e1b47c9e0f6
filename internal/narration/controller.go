package narration

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/perklund/storydeck/internal/audio"
	"github.com/perklund/storydeck/internal/logging"
)

// Controller manages the single narration request lifecycle: validate,
// synthesize, decode, hand the buffer to the engine. At most one request
// is in flight or speaking at a time; concurrent requests are rejected.
type Controller struct {
	provider   Provider
	engine     *audio.Engine
	credential func() string
	decode     func(payload []byte) ([]int16, error)

	mu      sync.Mutex
	busy    bool // in flight or speaking
	loading bool // between request start and playback start
}

// NewController creates a controller. credential returns the current
// provider credential, or "" when none is configured.
func NewController(provider Provider, engine *audio.Engine, credential func() string) *Controller {
	return &Controller{
		provider:   provider,
		engine:     engine,
		credential: credential,
		decode:     audio.DecodeBytes,
	}
}

// Loading reports whether a synthesis request is awaiting the provider.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Narrate synthesizes text and plays it. Returns ErrConfiguration before
// any provider call when the credential is missing or the text is empty,
// ErrBusy while another narration is active, and ErrProvider (with the
// provider's message) on synthesis failure. On success the narration is
// playing when this returns; the speaking flag clears on its completion.
func (c *Controller) Narrate(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty narration text", ErrConfiguration)
	}
	if c.credential() == "" {
		return fmt.Errorf("%w: no provider credential configured", ErrConfiguration)
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	c.loading = true
	c.mu.Unlock()

	id := uuid.NewString()[:8]
	logging.Infof("narration %s: synthesizing %d chars", id, len(text))

	payload, err := c.provider.Synthesize(ctx, text)
	if err != nil {
		c.reset()
		logging.Warnf("narration %s: %v", id, err)
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}

	samples, err := c.decode(payload)
	if err != nil {
		c.reset()
		logging.Warnf("narration %s: undecodable payload: %v", id, err)
		return fmt.Errorf("%w: undecodable provider payload", ErrProvider)
	}

	c.mu.Lock()
	c.loading = false
	c.mu.Unlock()

	logging.Infof("narration %s: playing %d samples", id, len(samples))
	c.engine.PlayNarration(samples, func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	})
	return nil
}

// reset clears both flags after a failed request.
func (c *Controller) reset() {
	c.mu.Lock()
	c.busy = false
	c.loading = false
	c.mu.Unlock()
}
