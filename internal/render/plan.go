package render

import (
	"fmt"
	"io"
	"strings"

	"artifactplan/internal/artifact"
	"artifactplan/internal/resolve"
	"artifactplan/internal/selection"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Plan writes a human-readable summary of plan to w.
func Plan(w io.Writer, plan *resolve.Plan) error {
	s := NewStyles(w)
	var b strings.Builder

	title := "Build plan"
	if plan.RequestID != "" {
		title += " " + plan.RequestID
	}
	fmt.Fprintf(&b, "%s %s\n", s.Title.Render(title), s.Label.Render("(host "+string(plan.Host)+")"))
	fmt.Fprintf(&b, "%s %d  %s %d  %s %d\n\n",
		s.Label.Render("matched tests:"), len(plan.MatchedTests),
		s.Label.Render("required:"), len(plan.Required),
		s.Label.Render("optional:"), len(plan.Optional))

	for _, tg := range selection.AllToggles() {
		if plan.Selections.Get(tg) {
			fmt.Fprintf(&b, "  %s %s\n", s.Enabled.Render("[x]"), s.Enabled.Render(tg.String()))
		} else {
			fmt.Fprintf(&b, "  %s %s\n", s.Disabled.Render("[ ]"), s.Disabled.Render(tg.String()))
		}
	}

	if len(plan.Unclassified)+len(plan.Unknown)+len(plan.Undeclared) > 0 {
		b.WriteString("\n")
	}
	if len(plan.Unclassified) > 0 {
		fmt.Fprintf(&b, "%s %s\n", s.Warning.Render("unclassified artifacts:"), joinIDs(plan.Unclassified))
	}
	if len(plan.Unknown) > 0 {
		fmt.Fprintf(&b, "%s %s\n", s.Warning.Render("artifacts not in catalog:"), joinIDs(plan.Unknown))
	}
	if len(plan.Undeclared) > 0 {
		fmt.Fprintf(&b, "%s %s\n", s.Warning.Render("tests without manifest entry:"), strings.Join(plan.Undeclared, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Table writes the classification table to w, with host-specific toggles
// listed per platform.
func Table(w io.Writer, rules []selection.Rule) error {
	s := NewStyles(w)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		Headers("GROUP", "ARTIFACTS", "TOGGLES", "HOST TOGGLES").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			return s.Cell
		})

	for _, r := range rules {
		t.Row(r.Name, joinIDsLines(r.IDs), r.Toggles.String(), hostToggles(r))
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func hostToggles(r selection.Rule) string {
	var parts []string
	for _, p := range []selection.Platform{selection.PlatformLinux, selection.PlatformWindows, selection.PlatformMacOS} {
		if set, ok := r.HostToggles[p]; ok && !set.Empty() {
			parts = append(parts, string(p)+": "+set.String())
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "\n")
}

func joinIDs(ids []artifact.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}

func joinIDsLines(ids []artifact.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, "\n")
}
