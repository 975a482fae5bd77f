package diff

import (
	"fmt"
	"strings"
)

// Render formats the report as plain text suitable for console output
// or a comparison file.
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "SNAPSHOT COMPARISON\n")
	fmt.Fprintf(&b, "===================\n")
	fmt.Fprintf(&b, "Baseline: %s\n", r.Baseline)
	fmt.Fprintf(&b, "Current:  %s\n", r.Current)
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))

	if !r.HasChanges() {
		b.WriteString("No significant changes detected.\n")
		return b.String()
	}

	for _, section := range r.Sections {
		if len(section.Changes) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s COMPARISON:\n", strings.ToUpper(section.Key))
		for _, change := range section.Changes {
			if change.Metric != "" {
				fmt.Fprintf(&b, "  %s: %s (%s)\n", change.Metric, change.Detail, change.Type)
			} else {
				fmt.Fprintf(&b, "  %s (%s)\n", change.Detail, change.Type)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
