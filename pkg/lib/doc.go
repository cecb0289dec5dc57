// Package lib provides a Go SDK to categorize and manage the apps of a repository
// without shelling out to the appstore CLI binary.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{RepoPath: "./my-apps-repo"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	summary, err := client.Categorize(ctx)
//	apps, err := client.ListApps(ctx, &lib.ListAppsOpts{Categories: []lib.Category{lib.CategoryDataScience}})
//	out, err := client.Readme(ctx, apps[0].Name)
//
// # Engines
//
//   - [EngineLocal]: Discovers the apps on the local filesystem and installs dependencies with pip.
//   - [EngineFake]: In-memory engine for tests, apps are set with [Config.FakeApps].
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: The app or its README does not exist.
//   - [ErrNotValid]: Invalid input.
//   - [ErrPrecondition]: The operation requires a previous one (e.g. clone before categorize).
//   - [ErrBusy]: Another operation is in flight.
//   - [ErrTaskFailed]: The underlying task failed.
//
// # Thread Safety
//
// A [Client] is safe for concurrent use, only one operation runs at a time and
// the rest are rejected with [ErrBusy].
package lib
