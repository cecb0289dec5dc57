package orchestrator

import (
	"fmt"
	"strings"

	"github.com/slok/appstore/internal/model"
)

func summaryMarkdown(s model.CategorySummary) string {
	var b strings.Builder
	b.WriteString("| Category | Apps |\n")
	b.WriteString("|---|---|\n")
	for _, c := range s.Counts {
		fmt.Fprintf(&b, "| %s | %d |\n", c.Category, c.Items)
	}
	fmt.Fprintf(&b, "\n**Total:** %d apps\n", s.Total)
	return b.String()
}
