package printer

import "github.com/slok/appstore/internal/model"

// Printer knows how to print app store information in different formats.
type Printer interface {
	PrintCatalog(items []model.Item) error
	PrintSummary(summary model.CategorySummary) error
	PrintOperations(ops []model.OperationRecord) error
	// PrintOutput prints an operation output, its body is Markdown.
	PrintOutput(out model.Output) error
	PrintMessage(msg string) error
}
