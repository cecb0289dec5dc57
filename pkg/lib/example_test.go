package lib_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/slok/appstore/pkg/lib"
)

func Example() {
	dir, err := os.MkdirTemp("", "appstore-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	ctx := context.Background()
	client, err := lib.New(ctx, lib.Config{
		DBPath: filepath.Join(dir, "appstore.db"),
		Engine: lib.EngineFake,
		FakeApps: []lib.App{
			{Name: "dashboard", Category: lib.CategoryDataScience, Type: "streamlit", Path: "dashboard", MainFile: "app.py"},
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	summary, err := client.Categorize(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("apps:", summary.Total)

	_, err = client.Readme(ctx, "dashboard")
	if errors.Is(err, lib.ErrNotFound) {
		fmt.Println("no readme")
	}

	// Output:
	// apps: 1
	// no readme
}
