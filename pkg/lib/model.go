package lib

import (
	"errors"
	"time"

	"github.com/slok/appstore/internal/model"
)

// EngineType identifies the engine implementation.
type EngineType string

const (
	// EngineLocal works on the local filesystem and processes.
	EngineLocal EngineType = "local"

	// EngineFake uses an in-memory simulation.
	// Use this for unit testing without a real repository.
	EngineFake EngineType = "fake"
)

// Category is one of the fixed app categories.
type Category string

const (
	CategoryWebDevelopment            Category = Category(model.CategoryWebDevelopment)
	CategoryDataScience               Category = Category(model.CategoryDataScience)
	CategoryMachineLearning           Category = Category(model.CategoryMachineLearning)
	CategoryComputerVision            Category = Category(model.CategoryComputerVision)
	CategoryNaturalLanguageProcessing Category = Category(model.CategoryNaturalLanguageProcessing)
	CategoryGenerativeAI              Category = Category(model.CategoryGenerativeAI)
)

// App is a categorized app of the catalog.
type App struct {
	Name     string
	Category Category
	// Type is the app type tag (streamlit, gradio, jupyter...).
	Type            string
	Path            string
	MainFile        string
	SizeBytes       int64
	HasRequirements bool
	HasReadme       bool
}

// CategoryCount is the number of apps of a category.
type CategoryCount struct {
	Category Category
	Apps     int
}

// Summary is the per category app count of the catalog.
type Summary struct {
	Total  int
	Counts []CategoryCount
}

// ListAppsOpts are the optional filters of [Client.ListApps]. All of them must match.
type ListAppsOpts struct {
	// Search is a case insensitive substring of the app name.
	Search     string
	Categories []Category
	Types      []string
}

// Output is the result of an app operation, the body is Markdown.
type Output struct {
	Title string
	Body  string
}

// Operation is the kind of a recorded operation.
type Operation string

const (
	OperationCategorize Operation = Operation(model.OperationCategorize)
	OperationClone      Operation = Operation(model.OperationClone)
	OperationInstall    Operation = Operation(model.OperationInstall)
	OperationRun        Operation = Operation(model.OperationRun)
	OperationReadme     Operation = Operation(model.OperationReadme)
)

// OperationRecord is a finished operation.
type OperationRecord struct {
	ID        string
	Operation Operation
	App       string
	Failed    bool
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

// HistoryOpts are the optional filters of [Client.History].
type HistoryOpts struct {
	// Limit is the max number of records, 0 means all.
	Limit     int
	Operation Operation
	App       string
}

// Event is a status or error emission of an operation.
type Event struct {
	Time      time.Time
	Operation Operation
	Message   string
	// Err is set on error events.
	Err error
}

var (
	// ErrNotFound is returned when the app or its documentation does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned on invalid input.
	ErrNotValid = errors.New("not valid")
	// ErrTaskFailed is returned when the underlying task failed.
	ErrTaskFailed = errors.New("task failed")
	// ErrPrecondition is returned when the operation requires a previous one.
	ErrPrecondition = errors.New("precondition failed")
	// ErrBusy is returned when another operation is in flight.
	ErrBusy = errors.New("operation in flight")
)

// --- Conversion helpers ---

func toInternalCatalog(apps []App) model.Catalog {
	c := make(model.Catalog, 0, len(apps))
	for _, a := range apps {
		c = append(c, model.Item{
			Name:            a.Name,
			Category:        model.Category(a.Category),
			Kind:            a.Type,
			Path:            a.Path,
			MainFile:        a.MainFile,
			SizeBytes:       a.SizeBytes,
			HasRequirements: a.HasRequirements,
			HasReadme:       a.HasReadme,
		})
	}
	return c
}

func fromInternalApps(items []model.Item) []App {
	apps := make([]App, 0, len(items))
	for _, it := range items {
		apps = append(apps, App{
			Name:            it.Name,
			Category:        Category(it.Category),
			Type:            it.Kind,
			Path:            it.Path,
			MainFile:        it.MainFile,
			SizeBytes:       it.SizeBytes,
			HasRequirements: it.HasRequirements,
			HasReadme:       it.HasReadme,
		})
	}
	return apps
}

func fromInternalSummary(s model.CategorySummary) Summary {
	counts := make([]CategoryCount, 0, len(s.Counts))
	for _, c := range s.Counts {
		counts = append(counts, CategoryCount{Category: Category(c.Category), Apps: c.Items})
	}
	return Summary{Total: s.Total, Counts: counts}
}

func toInternalCriteria(opts *ListAppsOpts) model.FilterCriteria {
	if opts == nil {
		return model.FilterCriteria{}
	}

	cats := make([]model.Category, 0, len(opts.Categories))
	for _, c := range opts.Categories {
		cats = append(cats, model.Category(c))
	}
	return model.NewFilterCriteria(opts.Search, cats, opts.Types)
}

func fromInternalOutput(o model.Output) Output {
	return Output{Title: o.Title, Body: o.Body}
}

func fromInternalOperations(ops []model.OperationRecord) []OperationRecord {
	res := make([]OperationRecord, 0, len(ops))
	for _, op := range ops {
		res = append(res, OperationRecord{
			ID:        op.ID,
			Operation: Operation(op.Operation),
			App:       op.ItemName,
			Failed:    op.Status == model.OperationStatusFailed,
			Error:     op.Error,
			StartedAt: op.StartedAt,
			Duration:  op.FinishedAt.Sub(op.StartedAt),
		})
	}
	return res
}

func fromInternalEvent(ev model.Event) Event {
	return Event{
		Time:      ev.Time,
		Operation: Operation(ev.Operation),
		Message:   ev.Message,
		Err:       mapError(ev.Err),
	}
}

// --- Error mapping ---

var internalErrors = []struct {
	internal error
	public   error
}{
	{model.ErrBusy, ErrBusy},
	{model.ErrPrecondition, ErrPrecondition},
	{model.ErrNotFound, ErrNotFound},
	{model.ErrTaskFailed, ErrTaskFailed},
	{model.ErrAlreadyExists, ErrAlreadyExists},
	{model.ErrNotValid, ErrNotValid},
}

// mapError makes the internal sentinel errors match the public ones with errors.Is,
// the first matching sentinel wins.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	for _, e := range internalErrors {
		if errors.Is(err, e.internal) {
			return &mappedError{original: err, sentinel: e.public}
		}
	}
	return err
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
