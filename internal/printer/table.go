package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/slok/appstore/internal/model"
)

// TablePrinter prints app store information in a table format.
type TablePrinter struct {
	writer   io.Writer
	markdown *MarkdownRenderer
}

// NewTablePrinter creates a new table printer, outputs are rendered with md.
// A nil md prints the outputs raw.
func NewTablePrinter(w io.Writer, md *MarkdownRenderer) *TablePrinter {
	return &TablePrinter{writer: w, markdown: md}
}

// PrintCatalog prints apps in a table format.
func (t *TablePrinter) PrintCatalog(items []model.Item) error {
	if len(items) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "NAME\tCATEGORY\tKIND\tSIZE\tREQUIREMENTS\tREADME")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			it.Name,
			it.Category,
			it.Kind,
			FormatBytes(it.SizeBytes),
			yesNo(it.HasRequirements),
			yesNo(it.HasReadme),
		)
	}

	return nil
}

// PrintSummary prints the per category app count.
func (t *TablePrinter) PrintSummary(summary model.CategorySummary) error {
	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "CATEGORY\tAPPS")
	for _, c := range summary.Counts {
		fmt.Fprintf(tw, "%s\t%d\n", c.Category, c.Items)
	}
	fmt.Fprintf(tw, "TOTAL\t%d\n", summary.Total)

	return nil
}

// PrintOperations prints the operation history in a table format.
func (t *TablePrinter) PrintOperations(ops []model.OperationRecord) error {
	if len(ops) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tOPERATION\tAPP\tSTATUS\tDURATION\tSTARTED\tERROR")
	for _, op := range ops {
		item := op.ItemName
		if item == "" {
			item = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			op.ID,
			op.Operation,
			item,
			op.Status,
			FormatDuration(op.FinishedAt.Sub(op.StartedAt)),
			TimeAgo(op.StartedAt),
			op.Error,
		)
	}

	return nil
}

// PrintOutput prints an operation output.
func (t *TablePrinter) PrintOutput(out model.Output) error {
	body := out.Body
	if t.markdown != nil {
		body = t.markdown.Render(fmt.Sprintf("# %s\n\n%s", out.Title, out.Body))
	} else if out.Title != "" {
		body = fmt.Sprintf("%s\n\n%s", out.Title, out.Body)
	}

	_, err := fmt.Fprintln(t.writer, body)
	return err
}

// PrintMessage prints a simple message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
