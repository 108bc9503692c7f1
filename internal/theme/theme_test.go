// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package theme

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
)

func TestActivePalette(t *testing.T) {
	th := Theme{
		Light: Palette{"primary": "#aa0000", "accent": ""},
		Dark:  Palette{"primary": "#110000", "background": "#000"},
	}

	light := ActivePalette(th, Light)
	if !reflect.DeepEqual(light, Palette{"primary": "#aa0000"}) {
		t.Errorf("light = %v, want only non-empty values", light)
	}
	dark := ActivePalette(th, Dark)
	if !reflect.DeepEqual(dark, Palette{"primary": "#110000", "background": "#000"}) {
		t.Errorf("dark = %v", dark)
	}

	// Idempotent and detached from the input.
	again := ActivePalette(th, Light)
	if !reflect.DeepEqual(light, again) {
		t.Errorf("second call = %v, want %v", again, light)
	}
	light["primary"] = "mutated"
	if th.Light["primary"] != "#aa0000" {
		t.Error("mutating the active palette leaked into the stored theme")
	}

	if got := ActivePalette(Theme{}, Dark); len(got) != 0 {
		t.Errorf("empty theme = %v, want empty palette", got)
	}
}

func TestPalette_Over(t *testing.T) {
	defaults := Palette{"primary": "#111", "background": "#fff"}
	over := Palette{"primary": "#f00"}

	got := over.Over(defaults)
	want := Palette{"primary": "#f00", "background": "#fff"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Over = %v, want %v", got, want)
	}
	if defaults["primary"] != "#111" {
		t.Error("Over modified the defaults")
	}
	if len(over) != 1 {
		t.Error("Over modified the overrides")
	}
}

func TestVarName(t *testing.T) {
	tests := map[string]string{
		"background":          "--background",
		"cardForeground":      "--card-foreground",
		"secondaryForeground": "--secondary-foreground",
	}
	for in, want := range tests {
		if got := VarName(in); got != want {
			t.Errorf("VarName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCSSVars(t *testing.T) {
	p := Palette{
		"primary":        "oklch(0.5 0.2 20)",
		"cardForeground": "#222",
		"unknown":        "#333",
		"ring":           "red; background:url(x)",
		"border":         "",
	}
	got := p.CSSVars()
	want := "--card-foreground: #222; --primary: oklch(0.5 0.2 20);"
	if got != want {
		t.Errorf("CSSVars() = %q, want %q", got, want)
	}
	if (Palette{}).CSSVars() != "" {
		t.Error("empty palette should produce no declarations")
	}
}

func TestSafeValue(t *testing.T) {
	tests := []struct {
		v    string
		want bool
	}{
		{"#fff", true},
		{"hsl(210 40% 98%)", true},
		{"red;", false},
		{"</style>", false},
		{"URL(javascript:x)", false},
		{"expression(alert(1))", false},
		{`"quoted"`, false},
	}
	for _, tt := range tests {
		if got := SafeValue(tt.v); got != tt.want {
			t.Errorf("SafeValue(%q) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(Theme{Light: Palette{"primary": "#fff"}, Dark: Palette{"ring": ""}}); err != nil {
		t.Errorf("valid theme rejected: %v", err)
	}
	if err := Validate(Theme{Light: Palette{"sparkle": "#fff"}}); err == nil {
		t.Error("unknown token accepted")
	}
	if err := Validate(Theme{Dark: Palette{"primary": "red}body{"}}); err == nil {
		t.Error("unsafe value accepted")
	}
}

func TestModeFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		cookie string
		hint   string
		want   Mode
	}{
		{"default", "/", "", "", Light},
		{"query wins", "/?mode=dark", "light", "light", Dark},
		{"cookie", "/", "dark", "", Dark},
		{"client hint", "/", "", "dark", Dark},
		{"invalid query falls through", "/?mode=sepia", "dark", "", Dark},
		{"invalid everything", "/?mode=x", "y", "z", Light},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: ModeCookie, Value: tt.cookie})
			}
			if tt.hint != "" {
				r.Header.Set("Sec-CH-Prefers-Color-Scheme", tt.hint)
			}
			if got := ModeFromRequest(r); got != tt.want {
				t.Errorf("ModeFromRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestActivePalette_Concurrent resolves two tenants' themes side by side and
// checks neither sees the other's overrides.
func TestActivePalette_Concurrent(t *testing.T) {
	a := Theme{Light: Palette{"primary": "#a00"}}
	b := Theme{Light: Palette{"primary": "#0b0", "accent": "#00b"}}
	defaults := Palette{"primary": "#000", "accent": "#111"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			got := ActivePalette(a, Light).Over(defaults)
			if got["primary"] != "#a00" || got["accent"] != "#111" {
				t.Errorf("tenant a saw %v", got)
			}
		}()
		go func() {
			defer wg.Done()
			got := ActivePalette(b, Light).Over(defaults)
			if got["primary"] != "#0b0" || got["accent"] != "#00b" {
				t.Errorf("tenant b saw %v", got)
			}
		}()
	}
	wg.Wait()
}
