package appstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/appstore/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		c.Binary = "appstore"
	}

	// go test changes the CWD to the test package directory, relative paths would be wrong.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("APPSTORE_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("appstore binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "APPSTORE_INTEGRATION"
		envBinary     = "APPSTORE_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		Binary: os.Getenv(envBinary),
	}

	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// Env is an isolated environment with its own database, repository and apps folder.
type Env struct {
	DBPath   string
	RepoPath string
	AppsPath string
}

// NewEnv creates a temp environment with a repository containing the files.
func NewEnv(t *testing.T, files map[string]string) Env {
	t.Helper()

	dir := t.TempDir()
	env := Env{
		DBPath:   filepath.Join(dir, "appstore.db"),
		RepoPath: filepath.Join(dir, "repo"),
		AppsPath: filepath.Join(dir, "categorized-apps"),
	}

	for name, content := range files {
		p := filepath.Join(env.RepoPath, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("could not create repo dir: %s", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("could not write repo file: %s", err)
		}
	}

	return env
}

// Runner returns a runner bound to the environment with logging suppressed.
func (e Env) Runner(config Config) testutils.Runner {
	return testutils.Runner{
		Binary:     config.Binary,
		GlobalArgs: []string{"--no-color", "--db-path", e.DBPath, "--repo-path", e.RepoPath, "--apps-path", e.AppsPath},
		Env:        []string{"APPSTORE_NO_LOG=true"},
	}
}

// RunCategorize categorizes the repository apps, optionally cloning them.
func RunCategorize(ctx context.Context, config Config, env Env, clone bool) (testutils.Result, error) {
	args := []string{"categorize", "--format", "json"}
	if clone {
		args = append(args, "--clone")
	}
	return env.Runner(config).Run(ctx, args...)
}

// RunList lists the apps in JSON format.
func RunList(ctx context.Context, config Config, env Env, filters ...string) (testutils.Result, error) {
	return env.Runner(config).Run(ctx, append([]string{"list", "--format", "json"}, filters...)...)
}

// RunReadme shows an app README in JSON format.
func RunReadme(ctx context.Context, config Config, env Env, name string) (testutils.Result, error) {
	return env.Runner(config).Run(ctx, "readme", "--format", "json", name)
}

// RunRun shows an app run instructions in JSON format.
func RunRun(ctx context.Context, config Config, env Env, name string) (testutils.Result, error) {
	return env.Runner(config).Run(ctx, "run", "--format", "json", name)
}

// RunHistory lists the operations history in JSON format.
func RunHistory(ctx context.Context, config Config, env Env) (testutils.Result, error) {
	return env.Runner(config).Run(ctx, "history", "--format", "json")
}
