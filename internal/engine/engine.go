package engine

import (
	"context"

	"github.com/slok/appstore/internal/model"
)

// Engine performs the long running work of the app store operations.
type Engine interface {
	// EnumerateAndTagCatalog discovers the apps and tags them with a category and kind.
	EnumerateAndTagCatalog(ctx context.Context) (model.Catalog, error)

	// MaterializeCategorized organizes the catalog apps into their category folders.
	MaterializeCategorized(ctx context.Context, c model.Catalog) error

	// InstallDependencies installs the app dependencies and returns the installer output.
	InstallDependencies(ctx context.Context, it model.Item) (string, error)

	// BuildRunInstructions returns Markdown instructions to run the app.
	BuildRunInstructions(ctx context.Context, it model.Item) (string, error)

	// FetchDocumentation returns the app documentation, model.ErrNotFound if missing.
	FetchDocumentation(ctx context.Context, it model.Item) (string, error)
}
