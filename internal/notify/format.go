package notify

import (
	"fmt"
	"strings"

	"farofino/internal/model"
)

const dateLayout = "02/01/2006 15:04"

// FormatArticle renders an article as a Markdown notification card.
func FormatArticle(a model.Article) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📰 *%s*\n\n", escapeMarkdown(a.Title))
	if a.PublishedAt != nil {
		fmt.Fprintf(&b, "📅 *Published:* %s\n", a.PublishedAt.Format(dateLayout))
	}
	if a.SourceName != "" {
		fmt.Fprintf(&b, "🌐 *Source:* %s\n", escapeMarkdown(a.SourceName))
	}
	fmt.Fprintf(&b, "🔗 [Read article](%s)", a.Link)
	return b.String()
}

// escapeMarkdown neutralizes the characters Telegram's legacy Markdown
// mode treats as formatting, so a headline cannot break the message.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer("*", "\\*", "_", "\\_", "`", "\\`", "[", "\\[")
	return r.Replace(s)
}
