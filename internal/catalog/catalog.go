// Package catalog holds the static resource catalog: mood categories
// mapping to ordered background-music track lists, and sound-effect keys
// mapping to single resources. Loaded once at startup, read-only after.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Catalog maps category names to track paths and effect keys to paths.
type Catalog struct {
	Music   map[string][]string `yaml:"music"`
	Effects map[string]string   `yaml:"effects"`
}

// Load reads and parses the catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if c.Music == nil {
		c.Music = map[string][]string{}
	}
	if c.Effects == nil {
		c.Effects = map[string]string{}
	}
	return &c, nil
}

// Tracks returns a copy of the track list for a category, or nil if the
// category is unknown or empty.
func (c *Catalog) Tracks(category string) []string {
	tracks := c.Music[category]
	if len(tracks) == 0 {
		return nil
	}
	out := make([]string, len(tracks))
	copy(out, tracks)
	return out
}

// Effect returns the resource path for a sound-effect key.
func (c *Catalog) Effect(key string) (string, bool) {
	path, ok := c.Effects[key]
	return path, ok
}

// Categories returns all category names with at least one track, sorted.
func (c *Catalog) Categories() []string {
	names := make([]string, 0, len(c.Music))
	for name, tracks := range c.Music {
		if len(tracks) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// EffectKeys returns all sound-effect keys, sorted.
func (c *Catalog) EffectKeys() []string {
	keys := make([]string, 0, len(c.Effects))
	for key := range c.Effects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsValidCategory checks if a category exists and has tracks.
func (c *Catalog) IsValidCategory(name string) bool {
	return len(c.Music[name]) > 0
}
