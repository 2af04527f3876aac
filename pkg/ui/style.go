package ui

import "github.com/charmbracelet/lipgloss"

type Style struct {
	Tab              lipgloss.Style
	ActiveTab        lipgloss.Style
	Description      lipgloss.Style
	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style
	Greeting         lipgloss.Style
	Status           lipgloss.Style
	Error            lipgloss.Style
	Input            lipgloss.Style
	Help             lipgloss.Style
}

type BorderColors struct {
	Unselected string
	Selected   string
	Focused    string
}

func DefaultStyles() *Style {
	lightModeColors := BorderColors{
		Unselected: "#CCCCCC",
		Selected:   "#FFB6C1",
		Focused:    "#FFFF99",
	}

	darkModeColors := BorderColors{
		Unselected: "#444444",
		Selected:   "#DD7090",
		Focused:    "#DDDD77",
	}

	unselected := lipgloss.AdaptiveColor{Light: lightModeColors.Unselected, Dark: darkModeColors.Unselected}
	selected := lipgloss.AdaptiveColor{Light: lightModeColors.Selected, Dark: darkModeColors.Selected}
	focused := lipgloss.AdaptiveColor{Light: lightModeColors.Focused, Dark: darkModeColors.Focused}

	return &Style{
		Tab:              lipgloss.NewStyle().Padding(0, 1).Foreground(unselected),
		ActiveTab:        lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true),
		Description:      lipgloss.NewStyle().Italic(true).Faint(true),
		UserMessage:      lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).BorderForeground(selected),
		AssistantMessage: lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).BorderForeground(unselected),
		Greeting:         lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1).BorderForeground(unselected).Faint(true),
		Status:           lipgloss.NewStyle().Faint(true),
		Error:            lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Input:            lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(focused),
		Help:             lipgloss.NewStyle().Faint(true),
	}
}

var personaColors = map[string]lipgloss.Color{
	"blue":    lipgloss.Color("12"),
	"green":   lipgloss.Color("10"),
	"red":     lipgloss.Color("9"),
	"purple":  lipgloss.Color("13"),
	"orange":  lipgloss.Color("214"),
	"magenta": lipgloss.Color("5"),
	"yellow":  lipgloss.Color("11"),
	"cyan":    lipgloss.Color("14"),
}

// PersonaColor maps a catalog color name (or a raw lipgloss color) to a
// terminal color.
func PersonaColor(name string) lipgloss.Color {
	if c, ok := personaColors[name]; ok {
		return c
	}
	return lipgloss.Color(name)
}
