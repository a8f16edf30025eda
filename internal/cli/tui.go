package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/giftring/pkg/assign"
)

var (
	revealGiverStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	revealReceiverStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	revealHiddenStyle   = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
	revealBoxStyle      = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(1, 3)
)

// =============================================================================
// RevealModel - Show one giver's receiver at a time
// =============================================================================

// RevealModel steps through the pairs of a draw so that each giver can look
// at their own receiver while the others look away. Moving on hides the
// receiver again.
type RevealModel struct {
	Pairs    []assign.ReportPair
	Cursor   int
	Revealed bool
	Seen     []bool
}

// NewRevealModel creates a reveal model over pairs.
func NewRevealModel(pairs []assign.ReportPair) RevealModel {
	return RevealModel{Pairs: pairs, Seen: make([]bool, len(pairs))}
}

func (m RevealModel) Init() tea.Cmd {
	return nil
}

func (m RevealModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "enter", " ":
		if len(m.Pairs) == 0 {
			return m, nil
		}
		m.Revealed = !m.Revealed
		if m.Revealed {
			m.Seen = append([]bool(nil), m.Seen...)
			m.Seen[m.Cursor] = true
		}
	case "right", "down", "n", "j", "tab":
		if m.Cursor < len(m.Pairs)-1 {
			m.Cursor++
			m.Revealed = false
		}
	case "left", "up", "p", "k", "shift+tab":
		if m.Cursor > 0 {
			m.Cursor--
			m.Revealed = false
		}
	}
	return m, nil
}

// Remaining returns how many givers have not looked yet.
func (m RevealModel) Remaining() int {
	n := 0
	for _, s := range m.Seen {
		if !s {
			n++
		}
	}
	return n
}

func (m RevealModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Gift Exchange"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("⏎ reveal/hide  ←/→ previous/next  q quit"))
	b.WriteString("\n\n")

	if len(m.Pairs) == 0 {
		b.WriteString(StyleDim.Render("No pairs to reveal."))
		b.WriteString("\n")
		return b.String()
	}

	p := m.Pairs[m.Cursor]
	receiver := revealHiddenStyle.Render("press ⏎ to reveal")
	if m.Revealed {
		receiver = revealReceiverStyle.Render(p.Receiver.Name)
	}
	card := revealGiverStyle.Render(p.Giver.Name) + StyleDim.Render(" gives a gift to ") + receiver
	b.WriteString(revealBoxStyle.Render(card))
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]  %d still to look", m.Cursor+1, len(m.Pairs), m.Remaining())))
	b.WriteString("\n")
	return b.String()
}
