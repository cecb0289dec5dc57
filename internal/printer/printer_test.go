package printer_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/appstore/internal/model"
	"github.com/slok/appstore/internal/printer"
)

func catalogFixture() []model.Item {
	return []model.Item{
		{Name: "web-dashboard", Category: model.CategoryWebDevelopment, Kind: "streamlit", Path: "/repo/web-dashboard", MainFile: "streamlit_app.py", SizeBytes: 1536, HasRequirements: true},
		{Name: "bert-qa", Category: model.CategoryNaturalLanguageProcessing, Kind: "python", Path: "/repo/bert-qa", MainFile: "main.py", SizeBytes: 512, HasReadme: true},
	}
}

func operationsFixture() []model.OperationRecord {
	t0 := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	return []model.OperationRecord{
		{ID: "01B", Operation: model.OperationInstall, ItemName: "bert-qa", Status: model.OperationStatusFailed, Error: "task failed: disk full", StartedAt: t0, FinishedAt: t0.Add(1500 * time.Millisecond)},
		{ID: "01A", Operation: model.OperationCategorize, Status: model.OperationStatusDone, StartedAt: t0, FinishedAt: t0.Add(300 * time.Millisecond)},
	}
}

func TestTablePrinterPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf, nil)

	err := p.PrintCatalog(catalogFixture())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"NAME", "CATEGORY", "KIND", "SIZE", "REQUIREMENTS", "README"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"web-dashboard", "1-Web-Development", "streamlit", "1.5", "KB", "yes", "no"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"bert-qa", "5-Natural-Language-Processing", "python", "512", "B", "no", "yes"}, strings.Fields(lines[2]))
}

func TestTablePrinterPrintEmptyCatalog(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf, nil)

	require.NoError(t, p.PrintCatalog(nil))
	assert.Empty(t, buf.String())
}

func TestTablePrinterPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf, nil)

	summary := model.Catalog(catalogFixture()).Summary()
	require.NoError(t, p.PrintSummary(summary))

	out := buf.String()
	assert.Contains(t, out, "1-Web-Development")
	assert.Contains(t, out, "6-Generative-AI")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{"TOTAL", "2"}, strings.Fields(lines[len(lines)-1]))
}

func TestTablePrinterPrintOperations(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf, nil)

	require.NoError(t, p.PrintOperations(operationsFixture()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "install")
	assert.Contains(t, lines[1], "1.5s")
	assert.Contains(t, lines[1], "task failed: disk full")
	assert.Contains(t, lines[2], "categorize")
	assert.Contains(t, lines[2], " - ")
}

func TestTablePrinterPrintOutput(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf, nil)

	err := p.PrintOutput(model.Output{Title: "Run bert-qa", Body: "python main.py"})
	require.NoError(t, err)
	assert.Equal(t, "Run bert-qa\n\npython main.py\n", buf.String())
}

func TestTablePrinterPrintOutputMarkdown(t *testing.T) {
	var buf bytes.Buffer
	md, err := printer.NewMarkdownRenderer(80, false)
	require.NoError(t, err)
	p := printer.NewTablePrinter(&buf, md)

	err = p.PrintOutput(model.Output{Title: "README: bert-qa", Body: "Some **bold** text."})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "README: bert-qa")
	assert.Contains(t, out, "bold")
}

func TestTablePrinterPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf, nil)

	err := p.PrintMessage("ok")
	require.NoError(t, err)
	assert.Equal(t, "ok", strings.TrimSpace(buf.String()))
}

func TestJSONPrinterPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	require.NoError(t, p.PrintCatalog(catalogFixture()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "web-dashboard", got[0]["name"])
	assert.Equal(t, "1-Web-Development", got[0]["category"])
	assert.Equal(t, float64(1536), got[0]["size_bytes"])
	assert.Equal(t, true, got[1]["has_readme"])
}

func TestJSONPrinterPrintEmptyCatalog(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	require.NoError(t, p.PrintCatalog(nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestJSONPrinterPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	require.NoError(t, p.PrintSummary(model.Catalog(catalogFixture()).Summary()))

	out := buf.String()
	assert.Contains(t, out, `"total": 2`)
	assert.Contains(t, out, `"1-Web-Development": 1`)
	assert.Contains(t, out, `"2-Data-Science": 0`)
}

func TestJSONPrinterPrintOperations(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	require.NoError(t, p.PrintOperations(operationsFixture()))

	out := buf.String()
	assert.Contains(t, out, `"item": "bert-qa"`)
	assert.Contains(t, out, `"error": "task failed: disk full"`)
	assert.Contains(t, out, `"started_at": "2026-01-30T10:00:00Z"`)
}

func TestJSONPrinterPrintOutput(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	require.NoError(t, p.PrintOutput(model.Output{Title: "Run", Body: "python main.py"}))
	assert.Contains(t, buf.String(), `"body": "python main.py"`)
}
