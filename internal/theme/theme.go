// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package theme resolves a wedding's per-mode color overrides into the CSS
// custom properties applied to that wedding's page wrapper.
package theme

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Mode is the display mode a palette applies to.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// ParseMode returns the mode for s, and false for anything else.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// Tokens lists the color names a palette may set.
var Tokens = []string{
	"background",
	"foreground",
	"card",
	"cardForeground",
	"popover",
	"popoverForeground",
	"primary",
	"primaryForeground",
	"secondary",
	"secondaryForeground",
	"muted",
	"mutedForeground",
	"accent",
	"accentForeground",
	"destructive",
	"border",
	"input",
	"ring",
}

var tokenSet = func() map[string]bool {
	m := make(map[string]bool, len(Tokens))
	for _, t := range Tokens {
		m[t] = true
	}
	return m
}()

// Palette maps token names to CSS color values.
type Palette map[string]string

// Theme is a wedding's stored overrides, one palette per mode.
type Theme struct {
	Light Palette `json:"light"`
	Dark  Palette `json:"dark"`
}

// ActivePalette returns a fresh copy of the palette for mode, keeping only
// non-empty values. It never returns a map shared with t.
func ActivePalette(t Theme, mode Mode) Palette {
	src := t.Light
	if mode == Dark {
		src = t.Dark
	}
	out := make(Palette, len(src))
	for k, v := range src {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Over layers p on top of defaults and returns a new palette.
func (p Palette) Over(defaults Palette) Palette {
	out := make(Palette, len(defaults)+len(p))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range p {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// CSSVars renders the palette as custom property declarations sorted by
// property name. Unknown tokens and unsafe values are skipped.
func (p Palette) CSSVars() string {
	names := make([]string, 0, len(p))
	for k, v := range p {
		if tokenSet[k] && v != "" && SafeValue(v) {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	for i, k := range names {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s;", VarName(k), p[k])
	}
	return b.String()
}

// VarName converts a camelCase token into its CSS custom property name,
// e.g. "cardForeground" -> "--card-foreground".
func VarName(token string) string {
	var b strings.Builder
	b.WriteString("--")
	for _, r := range token {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SafeValue reports whether v can be placed inside a style attribute
// without escaping the declaration.
func SafeValue(v string) bool {
	if strings.ContainsAny(v, ";{}<>\"'\\\n\r") {
		return false
	}
	lower := strings.ToLower(v)
	return !strings.Contains(lower, "url(") && !strings.Contains(lower, "expression(")
}

// Validate rejects unknown tokens and unsafe values before a theme is stored.
func Validate(t Theme) error {
	for mode, p := range map[Mode]Palette{Light: t.Light, Dark: t.Dark} {
		for k, v := range p {
			if !tokenSet[k] {
				return fmt.Errorf("%s: unknown color token %q", mode, k)
			}
			if v != "" && !SafeValue(v) {
				return fmt.Errorf("%s: invalid value for %q", mode, k)
			}
		}
	}
	return nil
}

// ModeCookie is the cookie remembering a visitor's preferred mode.
const ModeCookie = "color_mode"

// ModeFromRequest picks the display mode for a request: an explicit ?mode=
// query, then the mode cookie, then the client hint header. Light otherwise.
func ModeFromRequest(r *http.Request) Mode {
	if m, ok := ParseMode(r.URL.Query().Get("mode")); ok {
		return m
	}
	if c, err := r.Cookie(ModeCookie); err == nil {
		if m, ok := ParseMode(c.Value); ok {
			return m
		}
	}
	if m, ok := ParseMode(r.Header.Get("Sec-CH-Prefers-Color-Scheme")); ok {
		return m
	}
	return Light
}
