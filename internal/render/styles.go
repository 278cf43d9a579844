package render

import "github.com/charmbracelet/lipgloss"

// styles holds the lipgloss styles bound to one lipgloss renderer, so the
// colour profile follows the output they are written to.
type styles struct {
	cards   [3]lipgloss.Style // Indexed by colour
	header  lipgloss.Style
	rule    lipgloss.Style
	info    lipgloss.Style
	bucket  lipgloss.Style
	percent lipgloss.Style
	warning lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		cards: [3]lipgloss.Style{
			r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
			r.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
			r.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
		},
		header: r.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		rule: r.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		info: r.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")),
		bucket: r.NewStyle().
			Foreground(lipgloss.Color("12")),
		percent: r.NewStyle().
			Foreground(lipgloss.Color("10")),
		warning: r.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
	}
}
