// Package styles resolves named caption presets plus per-request
// overrides into the force_style attribute string consumed by the
// renderer's subtitle filter.
package styles

import (
	"fmt"
	"strings"

	"github.com/clipforge/clipforge/internal/types"
)

// DefaultPreset is the fallback for unknown preset names.
const DefaultPreset = "Classic"

// Style is a caption style descriptor. Colours use the renderer's
// native &HBBGGRR& order (byte-reversed relative to RRGGBB).
// OutlineColour may be empty: some presets carry no outline field.
type Style struct {
	Alignment     int
	Fontname      string
	Fontsize      int
	PrimaryColour string
	OutlineColour string
	BorderStyle   int
	Outline       int
	Shadow        int
	MarginV       int
}

// presets holds the fixed table of named caption styles.
// Alignment=10 centers the captions; BorderStyle=3 renders a box.
var presets = map[string]Style{
	"Karaoke": {
		Alignment: 10, Fontname: "Nirmala UI", Fontsize: 30,
		PrimaryColour: "&H00FF00&", OutlineColour: "&H000000&",
		BorderStyle: 1, Outline: 1, Shadow: 0, MarginV: 20,
	},
	"Deep Diver": {
		Alignment: 10, Fontname: "Nirmala UI", Fontsize: 30,
		PrimaryColour: "&HFFFFFF&",
		BorderStyle:   3, Outline: 1, Shadow: 0, MarginV: 20,
	},
	"Mozi": {
		Alignment: 10, Fontname: "Nirmala UI", Fontsize: 30,
		PrimaryColour: "&HFF00FF&", OutlineColour: "&HFFFF00&",
		BorderStyle: 1, Outline: 2, Shadow: 0, MarginV: 20,
	},
	"Glitch": {
		Alignment: 10, Fontname: "Nirmala UI", Fontsize: 30,
		PrimaryColour: "&H0000FF&", OutlineColour: "&H00FFFF&",
		BorderStyle: 1, Outline: 1, Shadow: 1, MarginV: 20,
	},
	"Classic": {
		Alignment: 10, Fontname: "Nirmala UI", Fontsize: 30,
		PrimaryColour: "&HFFFFFF&", OutlineColour: "&H000000&",
		BorderStyle: 1, Outline: 1, Shadow: 0, MarginV: 20,
	},
}

// PresetNames returns the available preset names.
func PresetNames() []string {
	out := make([]string, 0, len(presets))
	for name := range presets {
		out = append(out, name)
	}
	return out
}

// Resolve looks up a preset by name (unknown names fall back to
// Classic) and applies overrides in order: text color, background
// color, font size. A background color is a one-way switch to box
// rendering: BorderStyle=3, shadow off, box color from the override.
// Malformed color strings skip that single override.
func Resolve(name string, ov types.StyleOverrides) Style {
	st, ok := presets[name]
	if !ok {
		st = presets[DefaultPreset]
	}

	if ov.TextColor != "" {
		if c, ok := assColor(ov.TextColor); ok {
			st.PrimaryColour = c
		}
	}
	if ov.BgColor != "" {
		if c, ok := assColor(ov.BgColor); ok {
			st.BorderStyle = 3
			st.Shadow = 0
			st.OutlineColour = c
		}
	}
	if ov.FontSize > 0 {
		st.Fontsize = ov.FontSize
	}
	return st
}

// String renders the comma-joined key=value attribute string for the
// renderer's force_style parameter.
func (s Style) String() string {
	parts := []string{
		fmt.Sprintf("Alignment=%d", s.Alignment),
		fmt.Sprintf("Fontname=%s", s.Fontname),
		fmt.Sprintf("Fontsize=%d", s.Fontsize),
		fmt.Sprintf("PrimaryColour=%s", s.PrimaryColour),
	}
	if s.OutlineColour != "" {
		parts = append(parts, fmt.Sprintf("OutlineColour=%s", s.OutlineColour))
	}
	parts = append(parts,
		fmt.Sprintf("BorderStyle=%d", s.BorderStyle),
		fmt.Sprintf("Outline=%d", s.Outline),
		fmt.Sprintf("Shadow=%d", s.Shadow),
		fmt.Sprintf("MarginV=%d", s.MarginV),
	)
	return strings.Join(parts, ",")
}

// assColor converts "#RRGGBB" (leading '#' optional) to the
// renderer's "&HBBGGRR&" order. Reports false for malformed input.
func assColor(hex string) (string, bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return "", false
	}
	r, g, b := hex[0:2], hex[2:4], hex[4:6]
	return fmt.Sprintf("&H%s%s%s&", b, g, r), true
}
