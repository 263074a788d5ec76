package dashboard

import "strings"

// ParseChecklist splits checklist text into items, one per line.
// Blank lines are skipped and carriage returns are ignored.
func ParseChecklist(text string) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r", ""))
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}
