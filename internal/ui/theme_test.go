package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"
)

func TestDefaultThemeCoversCoreNames(t *testing.T) {
	theme := DefaultTheme()
	for _, name := range []string{"background", "foreground", "primary", "like", "dislike", "typing"} {
		require.NotEqual(t, tcell.ColorDefault, theme.GetColor(name), name)
	}
}

func TestLoadThemeOverridesAndFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: custom
colors:
  primary: "#FF8800"
  like: "green"
`), 0o600))

	theme, err := LoadTheme(path)
	require.NoError(t, err)
	require.Equal(t, "custom", theme.Name)
	require.Equal(t, tcell.NewHexColor(0xFF8800), theme.GetColor("primary"))

	// Names the file leaves out keep their defaults.
	require.Equal(t, defaultColors["background"], theme.GetColor("background"))
}

func TestLoadThemeRejectsBadColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
colors:
  primary: "not-a-color-at-all"
`), 0o600))

	_, err := LoadTheme(path)
	require.Error(t, err)
}

func TestParseColorShortHex(t *testing.T) {
	c, err := parseColor("#f00")
	require.NoError(t, err)
	require.Equal(t, tcell.NewHexColor(0xFF0000), c)
}
