package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/giftring/pkg/assign"
)

// stdout receives all command output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Draw Output
// =============================================================================

// printStats prints draw statistics on a single line.
func printStats(participants, rules int, phase assign.Phase, cached bool) {
	parts := []string{
		fmt.Sprintf("%d participants", participants),
		fmt.Sprintf("%d rules", rules),
		phase.String(),
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(stdout, line)
}

// pairsTable renders the pairs of a report, giver first.
func pairsTable(pairs []assign.ReportPair) string {
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p.Giver.Name, iconArrow, p.Receiver.Name}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Giver", "", "Receiver").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader.Padding(0, 1)
			case col == 1:
				return StyleDim.Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		}).
		Render()
}

// ringLine renders a ring as "Ann → Ben → Cat → Ann".
func ringLine(ring []assign.ReportParticipant) string {
	if len(ring) == 0 {
		return ""
	}
	names := make([]string, 0, len(ring)+1)
	for _, p := range ring {
		names = append(names, p.Name)
	}
	names = append(names, ring[0].Name)
	return strings.Join(names, " "+iconArrow+" ")
}

func names(ps []assign.ReportParticipant) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return strings.Join(out, ", ")
}

// printDiagnostic explains who makes a roster infeasible.
func printDiagnostic(d *assign.ReportDiagnostic) {
	if d == nil {
		return
	}
	if len(d.Blocked) > 0 {
		printDetail("excluded everyone else: %s", names(d.Blocked))
	}
	if len(d.Unreceivable) > 0 {
		printDetail("excluded by everyone else: %s", names(d.Unreceivable))
	}
	if len(d.Deficient) > 0 {
		printDetail("share too few possible receivers between them: %s", names(d.Deficient))
	}
}

// printReport prints a report summary. Pairs are only listed when show is set.
func printReport(rep assign.Report, show bool) {
	if rep.Status != assign.StatusSuccess {
		printWarning("%s", rep.Message)
		printDiagnostic(rep.Diagnostic)
		if rep.Reason == assign.ReasonSearchBudgetExceeded {
			printDetail("raise --timeout or --max-nodes, or allow several circles with --policy prefer-cycle")
		}
		return
	}

	if len(rep.Ring) > 0 {
		printSuccess("Drew a single gift circle of %s", StyleHighlight.Render(fmt.Sprint(len(rep.Pairs))))
	} else {
		printSuccess("Drew %s pairs in %d circles", StyleHighlight.Render(fmt.Sprint(len(rep.Pairs))), len(rep.CycleLengths))
	}
	if !show {
		return
	}
	fmt.Fprintln(stdout, pairsTable(rep.Pairs))
	if len(rep.Ring) > 0 {
		printDetail("%s", ringLine(rep.Ring))
	}
}
