package local

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/slok/appstore/internal/model"
)

// InstallDependencies installs the app requirements.txt with pip. Other requirement
// formats are reported so the user installs them manually.
func (e *Engine) InstallDependencies(ctx context.Context, it model.Item) (string, error) {
	reqFile := firstExisting(it.Path, []string{"requirements.txt", "environment.yml", "pyproject.toml"})
	if reqFile == "" {
		return "No requirements file found.\n", nil
	}

	if filepath.Base(reqFile) != "requirements.txt" {
		return fmt.Sprintf("Requirements file found: %s\nPlease install dependencies manually for this file type.\n", filepath.Base(reqFile)), nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.installTimeout)
	defer cancel()

	args := append(append([]string{}, e.pipCmd[1:]...), "install", "-r", reqFile)
	cmd := exec.CommandContext(ctx, e.pipCmd[0], args...)
	cmd.Dir = it.Path
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debugf("Running %s %s", e.pipCmd[0], strings.Join(args, " "))
	err := cmd.Run()

	var b strings.Builder
	b.WriteString("```\n")
	b.WriteString(stdout.String())
	b.WriteString("\n```\n")
	if stderr.Len() > 0 {
		b.WriteString("**Errors:**\n```\n")
		b.WriteString(stderr.String())
		b.WriteString("\n```\n")
	}

	if err != nil {
		return b.String(), fmt.Errorf("could not install %s requirements: %w: %s", it.Name, err, lastLine(stderr.String()))
	}

	e.logger.Infof("Installed %s dependencies", it.Name)
	return b.String(), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
