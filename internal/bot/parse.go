package bot

import "strings"

// ParseKeywordList splits a comma-separated keyword argument string,
// trimming whitespace and dropping empty entries.
func ParseKeywordList(args string) []string {
	var words []string
	for _, part := range strings.Split(args, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		words = append(words, part)
	}
	return words
}
