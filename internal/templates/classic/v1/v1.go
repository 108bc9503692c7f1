// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package v1 is Classic Elegance v1: full-height hero, centered typography,
// card-based sections in the canonical order. Released versions never change.
package v1

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/roblesbraun/braunstudio/internal/sections"
	"github.com/roblesbraun/braunstudio/internal/templates"
	"github.com/roblesbraun/braunstudio/internal/theme"
)

//go:embed sections.html
var files embed.FS

// ID and Version identify this template in the registry.
const (
	ID      = "classic"
	Version = "v1"
)

// Template renders Classic v1.
type Template struct {
	sections *template.Template
}

// Load parses the embedded section templates.
func Load(ctx context.Context) (templates.Template, error) {
	t, err := template.New("sections.html").Funcs(templates.FuncMap()).ParseFS(files, "sections.html")
	if err != nil {
		return nil, fmt.Errorf("parse classic v1: %w", err)
	}
	return &Template{sections: t}, nil
}

// Render writes the sections in canonical order regardless of how the
// wedding stores them.
func (t *Template) Render(ctx context.Context, w io.Writer, p templates.Props) error {
	if _, err := io.WriteString(w, `<main class="classic classic-v1">`); err != nil {
		return err
	}
	err := templates.RenderSections(ctx, w, sections.CanonicalOrder, p, func(w io.Writer, s templates.Section) error {
		return t.sections.ExecuteTemplate(w, string(s.Key), s)
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, `</main>`)
	return err
}

var defaults = map[theme.Mode]theme.Palette{
	theme.Light: {
		"background":          "#ffffff",
		"foreground":          "#1c1917",
		"card":                "#fafaf9",
		"cardForeground":      "#1c1917",
		"popover":             "#ffffff",
		"popoverForeground":   "#1c1917",
		"primary":             "#1c1917",
		"primaryForeground":   "#fafaf9",
		"secondary":           "#f5f5f4",
		"secondaryForeground": "#1c1917",
		"muted":               "#f5f5f4",
		"mutedForeground":     "#78716c",
		"accent":              "#b45309",
		"accentForeground":    "#fafaf9",
		"destructive":         "#dc2626",
		"border":              "#e7e5e4",
		"input":               "#e7e5e4",
		"ring":                "#a8a29e",
	},
	theme.Dark: {
		"background":          "#0c0a09",
		"foreground":          "#fafaf9",
		"card":                "#1c1917",
		"cardForeground":      "#fafaf9",
		"popover":             "#1c1917",
		"popoverForeground":   "#fafaf9",
		"primary":             "#fafaf9",
		"primaryForeground":   "#1c1917",
		"secondary":           "#292524",
		"secondaryForeground": "#fafaf9",
		"muted":               "#292524",
		"mutedForeground":     "#a8a29e",
		"accent":              "#f59e0b",
		"accentForeground":    "#1c1917",
		"destructive":         "#7f1d1d",
		"border":              "#292524",
		"input":               "#292524",
		"ring":                "#57534e",
	},
}

// Defaults returns a copy of the baseline palette for mode.
func (t *Template) Defaults(mode theme.Mode) theme.Palette {
	return theme.Palette{}.Over(defaults[mode])
}
