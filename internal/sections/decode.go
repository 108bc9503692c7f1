// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package sections

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Bundle is the render-side view of a wedding's sections.
type Bundle struct {
	Enabled   []Key
	Content   Contents
	Malformed []Key // content entries that failed to decode and were dropped
}

// IsEnabled reports whether k is enabled in the bundle.
func (b Bundle) IsEnabled(k Key) bool {
	return Contains(b.Enabled, k)
}

// Decode builds a Bundle from stored data. Reading is lenient: unknown and
// repeated enabled keys are dropped, and each content entry is decoded on its
// own so one malformed record never affects the others.
func Decode(enabled []string, raw map[string]json.RawMessage) Bundle {
	b := Bundle{Content: Contents{}}

	seen := make(map[Key]bool, len(enabled))
	for _, s := range enabled {
		k, ok := ParseKey(s)
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		b.Enabled = append(b.Enabled, k)
	}

	for name, data := range raw {
		k, ok := ParseKey(name)
		if !ok || !k.HasContent() || isNull(data) {
			continue
		}
		rec := newRecord(k)
		if err := json.Unmarshal(data, rec); err != nil {
			b.Malformed = append(b.Malformed, k)
			continue
		}
		b.Content[k] = rec
	}
	sort.Slice(b.Malformed, func(i, j int) bool { return b.Malformed[i] < b.Malformed[j] })

	return b
}

// ValidateEnabled checks an enabled-sections list before it is stored.
func ValidateEnabled(enabled []string) ([]Key, error) {
	out := make([]Key, 0, len(enabled))
	seen := make(map[Key]bool, len(enabled))
	for _, s := range enabled {
		k, ok := ParseKey(s)
		if !ok {
			return nil, fmt.Errorf("unknown section %q", s)
		}
		if seen[k] {
			return nil, fmt.Errorf("section %q listed twice", s)
		}
		seen[k] = true
		out = append(out, k)
	}
	return out, nil
}

// ValidateContent checks section content before it is stored. Unlike Decode
// it is strict: unknown sections, unknown fields and bad records are errors.
func ValidateContent(raw map[string]json.RawMessage) error {
	for name, data := range raw {
		k, ok := ParseKey(name)
		if !ok || !k.HasContent() {
			return fmt.Errorf("unknown section %q", name)
		}
		if isNull(data) {
			continue
		}
		rec := newRecord(k)
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(rec); err != nil {
			return fmt.Errorf("section %q: %w", name, err)
		}
		if g, ok := rec.(*Gifts); ok {
			if err := validateGifts(g); err != nil {
				return fmt.Errorf("section %q: %w", name, err)
			}
		}
	}
	return nil
}

func validateGifts(g *Gifts) error {
	if g.Mode != GiftModeWishlist && g.Mode != GiftModeGifts {
		return fmt.Errorf("mode must be %q or %q", GiftModeWishlist, GiftModeGifts)
	}
	ids := make(map[string]bool, len(g.Items))
	for _, it := range g.Items {
		if it.ID == "" {
			return fmt.Errorf("gift %q has no id", it.Name)
		}
		if ids[it.ID] {
			return fmt.Errorf("gift id %q used twice", it.ID)
		}
		ids[it.ID] = true
		if it.PriceInCents < 0 {
			return fmt.Errorf("gift %q has a negative price", it.ID)
		}
	}
	return nil
}

func isNull(data json.RawMessage) bool {
	d := bytes.TrimSpace(data)
	return len(d) == 0 || bytes.Equal(d, []byte("null"))
}
