package audio

import (
	"github.com/perklund/storydeck/internal/catalog"
	"github.com/perklund/storydeck/internal/logging"
)

// EffectPlayer resolves sound-effect keys against the catalog and fires
// them into the engine as one-shot channels. Unknown keys and undecodable
// resources are logged, never surfaced.
type EffectPlayer struct {
	engine *Engine
	tracks *catalog.Catalog
	decode func(path string) ([]int16, error)
	spawn  func(fn func())
}

// NewEffectPlayer creates an effect player bound to an engine and catalog.
func NewEffectPlayer(engine *Engine, tracks *catalog.Catalog) *EffectPlayer {
	return &EffectPlayer{
		engine: engine,
		tracks: tracks,
		decode: DecodeFile,
		spawn:  func(fn func()) { go fn() },
	}
}

// Play decodes the effect for key and mixes it in. Fire and forget.
func (p *EffectPlayer) Play(key string) {
	path, ok := p.tracks.Effect(key)
	if !ok {
		logging.Warnf("effects: unknown key %q, ignoring", key)
		return
	}
	p.spawn(func() {
		samples, err := p.decode(path)
		if err != nil {
			logging.Errorf("effects: %v", err)
			return
		}
		p.engine.PlayEffect(samples)
	})
}
