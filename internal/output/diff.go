package output

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// diffStyle is the chroma style used for terminal diffs
const diffStyle = "github-dark"

// HighlightDiff colors a unified diff with ANSI escapes. The input is returned
// unchanged when it cannot be highlighted.
func HighlightDiff(diff string) string {
	if diff == "" {
		return diff
	}
	lexer := lexers.Get("diff")
	if lexer == nil {
		return diff
	}
	style := styles.Get(diffStyle)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return diff
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, diff)
	if err != nil {
		return diff
	}
	var b strings.Builder
	if err := formatter.Format(&b, style, iterator); err != nil {
		return diff
	}
	return b.String()
}
