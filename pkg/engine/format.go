package engine

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rulectx/rulectx/pkg/detect"
	"github.com/rulectx/rulectx/pkg/fetch"
)

// formatInjected renders the loaded rules as a single injectable block: a
// context summary header, then each rule's title, source path, and content
// in selection order.
func formatInjected(pc *detect.Context, loaded []fetch.Result, totalTokens int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "> Project context: %s\n", pc)
	fmt.Fprintf(&b, "> Rules loaded: %d (~%s tokens estimated)\n",
		len(loaded), humanize.Comma(int64(totalTokens)))

	for _, res := range loaded {
		b.WriteString("\n## ")
		b.WriteString(res.Title)
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "_Source: %s_\n\n", res.Rule.Path)
		b.WriteString(strings.TrimRight(res.Content, "\n"))
		b.WriteString("\n")
	}

	return b.String()
}
