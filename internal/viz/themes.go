package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a colour scheme for the live view.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

func theme(name, primary, secondary, accent, bg, text, muted, ok, warn, bad string) Theme {
	return Theme{
		Name:       name,
		Primary:    lipgloss.Color(primary),
		Secondary:  lipgloss.Color(secondary),
		Accent:     lipgloss.Color(accent),
		Background: lipgloss.Color(bg),
		Text:       lipgloss.Color(text),
		Muted:      lipgloss.Color(muted),
		Success:    lipgloss.Color(ok),
		Warning:    lipgloss.Color(warn),
		Error:      lipgloss.Color(bad),
	}
}

var (
	ThemeSpace   = theme("space", "#7aa2f7", "#7dcfff", "#e0af68", "#0b0e14", "#c0caf5", "#565f89", "#9ece6a", "#ff9e64", "#f7768e")
	ThemeRetro   = theme("retro", "#00ff00", "#00cc00", "#88ff88", "#001100", "#00ff00", "#005500", "#88ff88", "#ffff00", "#ff0000")
	ThemeMinimal = theme("minimal", "#ffffff", "#cccccc", "#0088ff", "#000000", "#ffffff", "#888888", "#00ff00", "#ffaa00", "#ff0000")
	ThemeOcean   = theme("ocean", "#0077be", "#00a8cc", "#ffd700", "#001a33", "#e0f0ff", "#4488aa", "#00ff88", "#ffcc00", "#ff4444")
	ThemeSolar   = theme("solar", "#ff6b6b", "#feca57", "#ff9ff3", "#2d1b2e", "#fff5f5", "#8b6b8c", "#5fd068", "#ffc048", "#ff4757")

	// All available themes
	Themes = []Theme{
		ThemeSpace,
		ThemeRetro,
		ThemeMinimal,
		ThemeOcean,
		ThemeSolar,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after the named one, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
