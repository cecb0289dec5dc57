package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/appstore/internal/model"
)

// JSONPrinter prints app store information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type itemOutput struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	Kind            string `json:"kind"`
	Path            string `json:"path"`
	MainFile        string `json:"main_file"`
	SizeBytes       int64  `json:"size_bytes"`
	HasRequirements bool   `json:"has_requirements"`
	HasReadme       bool   `json:"has_readme"`
}

type summaryOutput struct {
	Total      int            `json:"total"`
	Categories map[string]int `json:"categories"`
}

type operationOutput struct {
	ID         string    `json:"id"`
	Operation  string    `json:"operation"`
	Item       string    `json:"item,omitempty"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

type outputOutput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintCatalog prints apps in JSON format.
func (j *JSONPrinter) PrintCatalog(items []model.Item) error {
	out := make([]itemOutput, len(items))
	for i, it := range items {
		out[i] = itemOutput{
			Name:            it.Name,
			Category:        string(it.Category),
			Kind:            it.Kind,
			Path:            it.Path,
			MainFile:        it.MainFile,
			SizeBytes:       it.SizeBytes,
			HasRequirements: it.HasRequirements,
			HasReadme:       it.HasReadme,
		}
	}

	return j.encode(out)
}

// PrintSummary prints the per category app count in JSON format.
func (j *JSONPrinter) PrintSummary(summary model.CategorySummary) error {
	out := summaryOutput{
		Total:      summary.Total,
		Categories: make(map[string]int, len(summary.Counts)),
	}
	for _, c := range summary.Counts {
		out.Categories[string(c.Category)] = c.Items
	}

	return j.encode(out)
}

// PrintOperations prints the operation history in JSON format.
func (j *JSONPrinter) PrintOperations(ops []model.OperationRecord) error {
	out := make([]operationOutput, len(ops))
	for i, op := range ops {
		out[i] = operationOutput{
			ID:         op.ID,
			Operation:  string(op.Operation),
			Item:       op.ItemName,
			Status:     string(op.Status),
			Error:      op.Error,
			StartedAt:  op.StartedAt.UTC(),
			FinishedAt: op.FinishedAt.UTC(),
		}
	}

	return j.encode(out)
}

// PrintOutput prints an operation output in JSON format.
func (j *JSONPrinter) PrintOutput(out model.Output) error {
	return j.encode(outputOutput{Title: out.Title, Body: out.Body})
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
