package render

import (
	"hash/fnv"
	"image/color"
	"strings"
)

var (
	ColorBackground = color.NRGBA{R: 16, G: 16, B: 24, A: 255}
	ColorGrid       = color.NRGBA{R: 90, G: 90, B: 110, A: 255}
	ColorAxis       = color.NRGBA{R: 140, G: 60, B: 60, A: 255}
	ColorOutline    = color.NRGBA{R: 255, G: 255, B: 255, A: 200}
)

// Layer colors follow the usual CMOS stackup palette. Matching is by prefix
// so "Metal-1" and "Metal-1-Node" share a color.
var layerColors = []struct {
	prefix string
	color  color.NRGBA
}{
	{"Metal-1", color.NRGBA{R: 96, G: 209, B: 255, A: 200}},
	{"Metal-2", color.NRGBA{R: 224, G: 95, B: 255, A: 200}},
	{"Metal-3", color.NRGBA{R: 247, G: 251, B: 20, A: 200}},
	{"Metal-4", color.NRGBA{R: 150, G: 150, B: 255, A: 200}},
	{"Metal-5", color.NRGBA{R: 255, G: 190, B: 6, A: 200}},
	{"Metal-6", color.NRGBA{R: 0, G: 255, B: 255, A: 200}},
	{"Polysilicon", color.NRGBA{R: 255, G: 85, B: 85, A: 200}},
	{"P-Active", color.NRGBA{R: 107, G: 226, B: 96, A: 200}},
	{"N-Active", color.NRGBA{R: 107, G: 226, B: 96, A: 200}},
	{"P-Select", color.NRGBA{R: 255, G: 255, B: 0, A: 80}},
	{"N-Select", color.NRGBA{R: 255, G: 255, B: 0, A: 80}},
	{"P-Well", color.NRGBA{R: 139, G: 99, B: 46, A: 120}},
	{"N-Well", color.NRGBA{R: 139, G: 99, B: 46, A: 120}},
	{"Via", color.NRGBA{R: 180, G: 180, B: 180, A: 220}},
	{"Poly-Cut", color.NRGBA{R: 100, G: 100, B: 100, A: 220}},
	{"Active-Cut", color.NRGBA{R: 100, G: 100, B: 100, A: 220}},
	{"Passivation", color.NRGBA{R: 200, G: 200, B: 200, A: 100}},
	{"Pad-Frame", color.NRGBA{R: 255, G: 0, B: 0, A: 160}},
}

// LayerColor returns the display color of a layer. Unknown layers get a
// stable color derived from the name.
func LayerColor(layer string) color.NRGBA {
	for _, lc := range layerColors {
		if strings.HasPrefix(layer, lc.prefix) {
			return lc.color
		}
	}
	h := fnv.New32a()
	h.Write([]byte(layer))
	v := h.Sum32()
	return color.NRGBA{R: uint8(v>>16) | 0x40, G: uint8(v>>8) | 0x40, B: uint8(v) | 0x40, A: 200}
}
