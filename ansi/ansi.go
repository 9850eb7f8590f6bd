// Package ansi provides the closed 16-color console palette and the ANSI
// escape sequences the console multiplexer emits. Colors are identified by a
// small enumeration rather than arbitrary RGB values so per-emitter state
// stays a pair of bytes and prefix coloring can be derived deterministically
// from an emitter id.
package ansi

import "strings"

// Color identifies one of the 16 conventional console colors.
type Color uint8

// The palette follows the classic console color table: the first eight
// entries are the dim variants, the second eight the bright ones.
const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGray
	DarkGray
	LightBlue
	LightGreen
	LightCyan
	LightRed
	LightMagenta
	Yellow
	White
)

// PaletteSize is the number of colors in the closed palette.
const PaletteSize = 16

// Reset is the ANSI escape sequence that clears all terminal styling.
const Reset = "\x1b[0m"

// Default colors applied to an emitter on first observation.
const (
	DefaultForeground = LightGray
	DefaultBackground = Black
)

// Timestamp is the fixed muted color used for timestamp prefixes.
const Timestamp = DarkGray

var fgSeq = [PaletteSize]string{
	Black:        "\x1b[30m",
	Blue:         "\x1b[34m",
	Green:        "\x1b[32m",
	Cyan:         "\x1b[36m",
	Red:          "\x1b[31m",
	Magenta:      "\x1b[35m",
	Brown:        "\x1b[33m",
	LightGray:    "\x1b[37m",
	DarkGray:     "\x1b[90m",
	LightBlue:    "\x1b[94m",
	LightGreen:   "\x1b[92m",
	LightCyan:    "\x1b[96m",
	LightRed:     "\x1b[91m",
	LightMagenta: "\x1b[95m",
	Yellow:       "\x1b[93m",
	White:        "\x1b[97m",
}

var bgSeq = [PaletteSize]string{
	Black:        "\x1b[40m",
	Blue:         "\x1b[44m",
	Green:        "\x1b[42m",
	Cyan:         "\x1b[46m",
	Red:          "\x1b[41m",
	Magenta:      "\x1b[45m",
	Brown:        "\x1b[43m",
	LightGray:    "\x1b[47m",
	DarkGray:     "\x1b[100m",
	LightBlue:    "\x1b[104m",
	LightGreen:   "\x1b[102m",
	LightCyan:    "\x1b[106m",
	LightRed:     "\x1b[101m",
	LightMagenta: "\x1b[105m",
	Yellow:       "\x1b[103m",
	White:        "\x1b[107m",
}

var names = [PaletteSize]string{
	Black:        "black",
	Blue:         "blue",
	Green:        "green",
	Cyan:         "cyan",
	Red:          "red",
	Magenta:      "magenta",
	Brown:        "brown",
	LightGray:    "light-gray",
	DarkGray:     "dark-gray",
	LightBlue:    "light-blue",
	LightGreen:   "light-green",
	LightCyan:    "light-cyan",
	LightRed:     "light-red",
	LightMagenta: "light-magenta",
	Yellow:       "yellow",
	White:        "white",
}

// Foreground returns the SGR sequence that switches the terminal foreground
// to c.
func (c Color) Foreground() string {
	return fgSeq[c%PaletteSize]
}

// Background returns the SGR sequence that switches the terminal background
// to c.
func (c Color) Background() string {
	return bgSeq[c%PaletteSize]
}

// String returns the canonical lowercase name of the color.
func (c Color) String() string {
	return names[c%PaletteSize]
}

var nameAliases = map[string]string{
	"grey":          "light-gray",
	"gray":          "light-gray",
	"lightgrey":     "light-gray",
	"lightgray":     "light-gray",
	"light-grey":    "light-gray",
	"darkgrey":      "dark-gray",
	"darkgray":      "dark-gray",
	"dark-grey":     "dark-gray",
	"lightblue":     "light-blue",
	"lightgreen":    "light-green",
	"lightcyan":     "light-cyan",
	"lightred":      "light-red",
	"lightmagenta":  "light-magenta",
	"darkyellow":    "brown",
	"dark-yellow":   "brown",
	"purple":        "magenta",
	"light-purple":  "light-magenta",
	"lightpurple":   "light-magenta",
	"bright-white":  "white",
	"brightwhite":   "white",
	"bright-yellow": "yellow",
	"brightyellow":  "yellow",
}

// ParseColor resolves a palette color by name. Names are case-insensitive
// and a handful of compatibility aliases (grey, purple, dark-yellow) are
// accepted.
func ParseColor(name string) (Color, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := nameAliases[normalized]; ok {
		normalized = alias
	}
	for i, n := range names {
		if n == normalized {
			return Color(i), true
		}
	}
	return DefaultForeground, false
}

// Prefix returns the deterministic identity-prefix color for an emitter id:
// palette[id mod PaletteSize].
func Prefix(id int) Color {
	return Color(((id % PaletteSize) + PaletteSize) % PaletteSize)
}
