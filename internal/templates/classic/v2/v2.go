// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package v2 is Classic Elegance v2. Unlike v1 it follows the order the
// couple arranged their sections in and renders the countdown section.
package v2

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/roblesbraun/braunstudio/internal/templates"
	"github.com/roblesbraun/braunstudio/internal/theme"
)

//go:embed sections.html
var files embed.FS

const (
	ID      = "classic"
	Version = "v2"
)

// Template renders Classic v2.
type Template struct {
	sections *template.Template
}

// Load parses the embedded section templates.
func Load(ctx context.Context) (templates.Template, error) {
	t, err := template.New("sections.html").Funcs(templates.FuncMap()).ParseFS(files, "sections.html")
	if err != nil {
		return nil, fmt.Errorf("parse classic v2: %w", err)
	}
	return &Template{sections: t}, nil
}

func (t *Template) Render(ctx context.Context, w io.Writer, p templates.Props) error {
	if _, err := io.WriteString(w, `<main class="classic classic-v2">`); err != nil {
		return err
	}
	err := templates.RenderSections(ctx, w, p.Sections.Enabled, p, func(w io.Writer, s templates.Section) error {
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
		"background":          "#fdfbf7",
		"foreground":          "#2d2a26",
		"card":                "#ffffff",
		"cardForeground":      "#2d2a26",
		"popover":             "#ffffff",
		"popoverForeground":   "#2d2a26",
		"primary":             "#6b4f3a",
		"primaryForeground":   "#fdfbf7",
		"secondary":           "#efe9e1",
		"secondaryForeground": "#2d2a26",
		"muted":               "#efe9e1",
		"mutedForeground":     "#857b70",
		"accent":              "#a3765a",
		"accentForeground":    "#ffffff",
		"destructive":         "#b91c1c",
		"border":              "#e4dcd2",
		"input":               "#e4dcd2",
		"ring":                "#a3765a",
	},
	theme.Dark: {
		"background":          "#1a1715",
		"foreground":          "#f3eee8",
		"card":                "#24201d",
		"cardForeground":      "#f3eee8",
		"popover":             "#24201d",
		"popoverForeground":   "#f3eee8",
		"primary":             "#d9b99b",
		"primaryForeground":   "#1a1715",
		"secondary":           "#302a26",
		"secondaryForeground": "#f3eee8",
		"muted":               "#302a26",
		"mutedForeground":     "#b3a89c",
		"accent":              "#d9b99b",
		"accentForeground":    "#1a1715",
		"destructive":         "#7f1d1d",
		"border":              "#3a332e",
		"input":               "#3a332e",
		"ring":                "#d9b99b",
	},
}

func (t *Template) Defaults(mode theme.Mode) theme.Palette {
	return theme.Palette{}.Over(defaults[mode])
}
