package series

import "github.com/verte-zerg/splitlog/internal/model"

const defaultColor = "gray"

// Inferno and Fight Caves number their checkpoints differently; the shared
// table maps both, so identical hues across the two activities are expected.
var waveColors = map[model.WaveID]string{
	// inferno
	"9":  "cyan",
	"18": "teal",
	"25": "green",
	"35": "lime",
	"42": "yellow",
	"50": "orange",
	"57": "red",
	"60": "purple",
	"63": "pink",
	"66": "brown",
	"67": "indigo",
	"68": "blue",
	"69": "violet",
	// fight caves
	"7":  "cyan",
	"15": "teal",
	"31": "green",
	"46": "lime",
	"53": "yellow",
	"61": "orange",
	"62": "red",
}

var colorHex = map[string]string{
	"cyan":   "#15aabf",
	"teal":   "#12b886",
	"green":  "#40c057",
	"lime":   "#82c91e",
	"yellow": "#fab005",
	"orange": "#fd7e14",
	"red":    "#fa5252",
	"purple": "#be4bdb",
	"pink":   "#e64980",
	"brown":  "#8d6e63",
	"indigo": "#4c6ef5",
	"blue":   "#228be6",
	"violet": "#7950f2",
	"gray":   "#868e96",
	"white":  "#f8f9fa",
	"black":  "#212529",
}

// waveNames labels the Inferno checkpoints by the encounter they precede.
var waveNames = map[model.WaveID]string{
	"9":  "Melee",
	"18": "Ranger",
	"25": "Melee/Ranger",
	"35": "Mage",
	"42": "Mage/Melee",
	"50": "Mage/Ranger",
	"57": "Mage/Ranger/Melee",
	"60": "Mage/Range/Melee/Blob",
	"63": "Mage/Range/Melee/2Blobs",
	"66": "Mage/Mage",
	"67": "Jad",
	"68": "Triples",
	"69": "Zuk",
}

// Color returns the display color name for a wave.
func Color(w model.WaveID) string {
	if c, ok := waveColors[w]; ok {
		return c
	}
	return defaultColor
}

// LastColor returns the monochrome color used for the completion series.
func LastColor(theme model.Theme) string {
	if theme == model.ThemeLight {
		return "black"
	}
	return "white"
}

// SeriesColor resolves the color for any series key, including "last".
func SeriesColor(w model.WaveID, theme model.Theme) string {
	if w == model.LastWave {
		return LastColor(theme)
	}
	return Color(w)
}

// Hex converts a color name to an RGB hex string.
func Hex(color string) string {
	if h, ok := colorHex[color]; ok {
		return h
	}
	return colorHex[defaultColor]
}

// WaveName returns the encounter name for an Inferno wave, if known.
func WaveName(w model.WaveID) (string, bool) {
	name, ok := waveNames[w]
	return name, ok
}
