package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThemes(t *testing.T) {
	names := ThemeNames()
	assert.Contains(t, names, DefaultTheme)

	for _, name := range names {
		p, ok := GetPalette(name)
		assert.True(t, ok, name)
		assert.NotEmpty(t, p.Primary, name)
		assert.NotEmpty(t, p.Warning, name)
	}

	_, ok := GetPalette("solarized-neon")
	assert.False(t, ok)
}

func TestIcon(t *testing.T) {
	tests := []struct {
		name string
		icon string
		nerd bool
		want string
	}{
		{name: "plain", icon: "check", want: "x"},
		{name: "nerd", icon: "check", nerd: true, want: "\uf00c"},
		{name: "unknown", icon: "rocket", nerd: true, want: "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Icon(tt.icon, tt.nerd))
		})
	}
}
