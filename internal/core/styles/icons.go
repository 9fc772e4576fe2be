package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

// nerdIcons maps bucket icon names to Nerd Font glyphs.
var nerdIcons = map[string]string{
	"circle":         "\uf10c",
	"clock":          "\uf017",
	"check":          "\uf00c",
	"inbox":          "\uf01c",
	"history":        "\uf1da",
	"calendar-day":   "\uf133",
	"calendar-week":  "\uf073",
	"calendar-range": "\uf271",
	"calendar-clock": "\U000F00F0",
}

// plainIcons are used when Nerd Fonts are disabled.
var plainIcons = map[string]string{
	"circle":         "o",
	"clock":          ">",
	"check":          "x",
	"inbox":          "#",
	"history":        "<",
	"calendar-day":   "d",
	"calendar-week":  "w",
	"calendar-range": "m",
	"calendar-clock": "~",
}

// Icon returns the glyph for a bucket icon name. Unknown names render as
// "*".
func Icon(name string, nerdFonts bool) string {
	set := plainIcons
	if nerdFonts {
		set = nerdIcons
	}
	if g, ok := set[name]; ok {
		return g
	}
	return "*"
}
