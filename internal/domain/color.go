package domain

import (
	"fmt"
	"math"
)

// Sentinel display strings produced when a value cannot be resolved to a color
const (
	Unresolved        = "Unresolved"
	CircularReference = "Circular reference"
)

// RGBA is a color with channels in the 0..1 range
type RGBA struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Hex returns the color as #RRGGBB, or #RRGGBBAA when it is not fully opaque
func (c RGBA) Hex() string {
	hex := fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
	if c.A < 1 {
		hex += fmt.Sprintf("%02X", channel(c.A))
	}
	return hex
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ResolvedValue is either a concrete color or a descriptive fallback string
type ResolvedValue struct {
	Color *RGBA
	Text  string
}

// ColorResult wraps a concrete color
func ColorResult(c RGBA) ResolvedValue {
	return ResolvedValue{Color: &c}
}

// TextResult wraps a descriptive fallback
func TextResult(text string) ResolvedValue {
	return ResolvedValue{Text: text}
}

// IsColor reports whether the value resolved to a concrete color
func (v ResolvedValue) IsColor() bool {
	return v.Color != nil
}

func (v ResolvedValue) String() string {
	if v.Color != nil {
		return v.Color.Hex()
	}
	return v.Text
}
