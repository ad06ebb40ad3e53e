package ui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"gopkg.in/yaml.v3"

	"agora/internal/utils"
)

// ThemeConfig is the YAML shape of a theme file.
type ThemeConfig struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Colors      map[string]string `yaml:"colors"`
}

// Theme maps semantic color names to terminal colors. Missing names fall
// back, so a partial theme file still renders.
type Theme struct {
	Name        string
	Description string
	colors      map[string]tcell.Color
}

// defaultColors is the built-in theme, used when no file is given and as
// the fallback for names a file leaves out.
var defaultColors = map[string]tcell.Color{
	"background":      tcell.ColorBlack,
	"foreground":      tcell.ColorWhite,
	"foreground-dark": tcell.ColorGray,
	"primary":         tcell.ColorAqua,
	"border":          tcell.ColorGray,
	"red":             tcell.ColorRed,
	"green":           tcell.ColorGreen,
	"like":            tcell.ColorGreen,
	"dislike":         tcell.ColorRed,
	"online":          tcell.ColorGreen,
	"typing":          tcell.ColorYellow,
	"own-message":     tcell.ColorAqua,
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() *Theme {
	colors := make(map[string]tcell.Color, len(defaultColors))
	for k, v := range defaultColors {
		colors[k] = v
	}
	return &Theme{Name: "default", colors: colors}
}

// LoadTheme reads a YAML theme file. Colors may be hex ("#RRGGBB"), decimal
// palette indexes, or tcell color names.
func LoadTheme(themePath string) (*Theme, error) {
	data, err := os.ReadFile(themePath)
	if err != nil {
		return nil, utils.ThemeError("failed to read theme file").WithDetails(err.Error())
	}

	var config ThemeConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, utils.ThemeError("failed to parse theme YAML").WithDetails(err.Error())
	}

	theme := DefaultTheme()
	theme.Name = config.Name
	theme.Description = config.Description

	for key, value := range config.Colors {
		color, err := parseColor(value)
		if err != nil {
			return nil, utils.ThemeError(fmt.Sprintf("failed to parse color %q", key)).WithDetails(err.Error())
		}
		theme.colors[key] = color
	}
	return theme, nil
}

// GetColor returns a color by name, white if the name is unknown.
func (t *Theme) GetColor(name string) tcell.Color {
	if color, ok := t.colors[name]; ok {
		return color
	}
	return tcell.ColorWhite
}

func parseColor(value string) (tcell.Color, error) {
	value = strings.TrimSpace(value)

	if strings.HasPrefix(value, "#") {
		return parseHexColor(value)
	}
	if n, err := strconv.Atoi(value); err == nil {
		return tcell.PaletteColor(n), nil
	}
	if color, ok := tcell.ColorNames[strings.ToLower(value)]; ok {
		return color, nil
	}
	return tcell.ColorWhite, utils.ThemeError("unknown color name: " + value)
}

func parseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return tcell.ColorWhite, utils.ThemeError("invalid hex color: #" + hex)
	}
	v, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return tcell.ColorWhite, err
	}
	return tcell.NewHexColor(int32(v)), nil
}
