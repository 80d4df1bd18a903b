package cli

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/motogestor/dashclient/internal/client/models"
)

// StyleSink projects the active tenant palette onto the terminal. Until a
// palette is applied every style renders with the terminal defaults.
type StyleSink struct {
	mu      sync.RWMutex
	palette *models.ThemePalette
}

func NewStyleSink() *StyleSink {
	return &StyleSink{}
}

func (s *StyleSink) Apply(p models.ThemePalette) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.palette = &p
}

// Palette returns the last applied palette.
func (s *StyleSink) Palette() (models.ThemePalette, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.palette == nil {
		return models.ThemePalette{}, false
	}
	return *s.palette, true
}

// Prompt styles the REPL prompt.
func (s *StyleSink) Prompt() lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true)
	if p, ok := s.Palette(); ok {
		st = withColor(st, p.Primary, p.Surface)
	}
	return st
}

// Heading styles section titles in command output.
func (s *StyleSink) Heading() lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true).Underline(true)
	if p, ok := s.Palette(); ok {
		st = withColor(st, p.Accent, "")
	}
	return st
}

// Muted styles secondary information.
func (s *StyleSink) Muted() lipgloss.Style {
	st := lipgloss.NewStyle().Faint(true)
	if p, ok := s.Palette(); ok {
		st = withColor(st, p.Secondary, "")
	}
	return st
}

// Swatch renders one block per palette color.
func Swatch(p models.ThemePalette) string {
	colors := []string{p.Primary, p.Secondary, p.Accent, p.Background, p.Surface}
	blocks := make([]string, 0, len(colors))
	for _, c := range colors {
		if c == "" {
			blocks = append(blocks, "  ")
			continue
		}
		blocks = append(blocks, lipgloss.NewStyle().Background(lipgloss.Color(c)).Render("  "))
	}
	return strings.Join(blocks, "")
}

func withColor(st lipgloss.Style, fg, bg string) lipgloss.Style {
	if fg != "" {
		st = st.Foreground(lipgloss.Color(fg))
	}
	if bg != "" {
		st = st.Background(lipgloss.Color(bg))
	}
	return st
}
