package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme of the live view.
type Theme struct {
	Name      string
	Chain     lipgloss.Color
	Title     lipgloss.Color
	TitleEnd  lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Chain:     lipgloss.Color("#00ffff"),
		Title:     lipgloss.Color("#ff00ff"),
		TitleEnd:  lipgloss.Color("#00ffff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Highlight: lipgloss.Color("#ffff00"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Chain:     lipgloss.Color("#00ff00"),
		Title:     lipgloss.Color("#00cc00"),
		TitleEnd:  lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Highlight: lipgloss.Color("#88ff88"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Chain:     lipgloss.Color("#00a8cc"),
		Title:     lipgloss.Color("#0077be"),
		TitleEnd:  lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Highlight: lipgloss.Color("#ffd700"),
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
