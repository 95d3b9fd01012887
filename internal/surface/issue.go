package surface

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nit-tools/nit/internal/nit/types"
)

func joinStrings(ss []string) string {
	return strings.Join(ss, ",")
}

func parentLabel(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// RenderSummaries writes a list of issue summaries (§4.4 list/ready/next)
// in the given format.
func RenderSummaries(w io.Writer, format Format, summaries []types.IssueSummary) error {
	switch format {
	case JSON:
		return writeJSON(w, summaries)
	case Pretty:
		return renderSummariesPretty(w, summaries)
	default:
		return renderSummariesCompact(w, summaries)
	}
}

func renderSummariesCompact(w io.Writer, summaries []types.IssueSummary) error {
	for i, s := range summaries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "ID: %d\n", s.ID)
		fmt.Fprintf(w, "TITLE: %s\n", s.Title)
		fmt.Fprintf(w, "STATUS: %s\n", s.Status)
		fmt.Fprintf(w, "PRIORITY: %s\n", s.Priority)
		fmt.Fprintf(w, "KIND: %s\n", s.Kind)
		fmt.Fprintf(w, "TAGS: %s\n", joinStrings(s.Tags))
		fmt.Fprintf(w, "PARENT: %s\n", parentLabel(s.ParentID))
		fmt.Fprintf(w, "BLOCKED: %t\n", s.IsBlocked)
		fmt.Fprintf(w, "URGENCY: %.2f\n", s.Urgency)
	}
	return nil
}

func renderSummariesPretty(w io.Writer, summaries []types.IssueSummary) error {
	if len(summaries) == 0 {
		fmt.Fprintln(w, "(no issues)")
		return nil
	}
	widths := [4]int{2, 5, 8, 5}
	for _, s := range summaries {
		widths[0] = maxInt(widths[0], len(strconv.FormatInt(s.ID, 10)))
		widths[1] = maxInt(widths[1], len(string(s.Priority)))
		widths[2] = maxInt(widths[2], len(string(s.Status)))
		widths[3] = maxInt(widths[3], len(string(s.Kind)))
	}
	for _, s := range summaries {
		blocked := " "
		if s.IsBlocked {
			blocked = blockedGlyph()
		}
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %-*s  %6.2f  %s %s\n",
			widths[0], strconv.FormatInt(s.ID, 10),
			widths[1], statusColor(s.Status, string(s.Priority)),
			widths[2], statusColor(s.Status, string(s.Status)),
			widths[3], string(s.Kind),
			s.Urgency,
			blocked,
			statusColor(s.Status, s.Title),
		)
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// RenderDetail writes the full issue detail object (§4.4 get) in the
// given format.
func RenderDetail(w io.Writer, format Format, d *types.IssueDetail) error {
	switch format {
	case JSON:
		return writeJSON(w, d)
	case Pretty:
		return renderDetailPretty(w, d)
	default:
		return renderDetailCompact(w, d)
	}
}

func renderDetailCompact(w io.Writer, d *types.IssueDetail) error {
	fmt.Fprintf(w, "ID: %d\n", d.ID)
	fmt.Fprintf(w, "TITLE: %s\n", d.Title)
	fmt.Fprintf(w, "STATUS: %s\n", d.Status)
	fmt.Fprintf(w, "PRIORITY: %s\n", d.Priority)
	fmt.Fprintf(w, "KIND: %s\n", d.Kind)
	fmt.Fprintf(w, "CONTEXT: %s\n", d.Context)
	fmt.Fprintf(w, "FILES: %s\n", joinStrings(d.Files))
	fmt.Fprintf(w, "TAGS: %s\n", joinStrings(d.Tags))
	fmt.Fprintf(w, "ACCEPTANCE: %s\n", d.Acceptance)
	fmt.Fprintf(w, "PARENT: %s\n", parentLabel(d.ParentID))
	fmt.Fprintf(w, "CLOSE_REASON: %s\n", d.CloseReason)
	fmt.Fprintf(w, "CREATED: %s\n", types.FormatTime(d.CreatedAt))
	fmt.Fprintf(w, "UPDATED: %s\n", types.FormatTime(d.UpdatedAt))
	fmt.Fprintf(w, "BLOCKED_BY: %s\n", joinIDs(d.BlockedBy))
	fmt.Fprintf(w, "BLOCKS: %s\n", joinIDs(d.Blocks))
	fmt.Fprintf(w, "IS_BLOCKED: %t\n", d.IsBlocked)
	fmt.Fprintf(w, "URGENCY: %.2f\n", d.Urgency)
	for _, t := range d.Breakdown {
		fmt.Fprintf(w, "URGENCY_TERM: %s coef=%.2f factor=%.2f contribution=%.2f\n",
			t.Term, t.Coefficient, t.Factor, t.Contribution)
	}
	fmt.Fprintf(w, "NOTES: %d\n", len(d.Notes))
	for _, n := range d.Notes {
		agent := n.Agent
		if agent == "" {
			agent = "-"
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", types.FormatTime(n.CreatedAt), agent, n.Content)
	}
	return nil
}

func renderDetailPretty(w io.Writer, d *types.IssueDetail) error {
	fmt.Fprintf(w, "%s  %s\n", idStyle(d.ID), statusColor(d.Status, d.Title))
	fmt.Fprintf(w, "  %s · %s · %s · urgency %.2f\n",
		statusColor(d.Status, string(d.Status)), string(d.Priority), string(d.Kind), d.Urgency)
	if d.Context != "" {
		fmt.Fprintf(w, "\n%s\n", d.Context)
	}
	if len(d.Files) > 0 {
		fmt.Fprintf(w, "\nfiles: %s\n", joinStrings(d.Files))
	}
	if len(d.Tags) > 0 {
		fmt.Fprintf(w, "tags: %s\n", joinStrings(d.Tags))
	}
	if d.Acceptance != "" {
		fmt.Fprintf(w, "\nacceptance: %s\n", d.Acceptance)
	}
	if len(d.BlockedBy) > 0 {
		fmt.Fprintf(w, "\nblocked by: %s\n", joinIDs(d.BlockedBy))
	}
	if len(d.Blocks) > 0 {
		fmt.Fprintf(w, "blocks: %s\n", joinIDs(d.Blocks))
	}
	if len(d.Notes) > 0 {
		fmt.Fprintln(w, "\nnotes:")
		for _, n := range d.Notes {
			agent := n.Agent
			if agent == "" {
				agent = "-"
			}
			fmt.Fprintf(w, "  [%s] %s: %s\n", types.FormatTime(n.CreatedAt), agent, n.Content)
		}
	}
	return nil
}
