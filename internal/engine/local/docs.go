package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/slok/appstore/internal/model"
)

const maxListedFiles = 10

// BuildRunInstructions returns Markdown instructions to run the app based on its kind.
func (e *Engine) BuildRunInstructions(ctx context.Context, it model.Item) (string, error) {
	entry := it.MainFile
	if entry == "" {
		entry = "main.py"
	}

	var b strings.Builder
	switch it.Kind {
	case "streamlit":
		b.WriteString("**Streamlit App Detected**\n\n")
		b.WriteString("```bash\n")
		fmt.Fprintf(&b, "cd %s\npip install streamlit\nstreamlit run %s --server.port 8501\n", it.Path, entry)
		b.WriteString("```\n")
	case "gradio":
		b.WriteString("**Gradio App Detected**\n\n")
		b.WriteString("```bash\n")
		fmt.Fprintf(&b, "cd %s\npip install gradio\npython %s\n", it.Path, entry)
		b.WriteString("```\n")
	case "panel":
		b.WriteString("**Panel App Detected**\n\n")
		b.WriteString("```bash\n")
		fmt.Fprintf(&b, "cd %s\npip install panel\npanel serve %s\n", it.Path, entry)
		b.WriteString("```\n")
	case "jupyter":
		b.WriteString("**Jupyter Notebook Detected**\n\n")
		b.WriteString("```bash\n")
		fmt.Fprintf(&b, "cd %s\n# Open it interactively.\njupyter notebook %s\n# Or execute it.\njupyter nbconvert --to notebook --execute %s\n", it.Path, entry, entry)
		b.WriteString("```\n")
	default:
		b.WriteString("**Python App Detected**\n\n")
		b.WriteString("```bash\n")
		fmt.Fprintf(&b, "cd %s\n", it.Path)
		if it.HasRequirements {
			b.WriteString("pip install -r requirements.txt\n")
		}
		fmt.Fprintf(&b, "python %s\n", entry)
		b.WriteString("```\n")

		found, err := doublestar.Glob(os.DirFS(it.Path), "**/*.py", doublestar.WithFilesOnly())
		if err != nil {
			return "", fmt.Errorf("could not list python files: %w", err)
		}
		files := []string{}
		for _, f := range found {
			if !ignored(f) {
				files = append(files, f)
			}
		}
		if len(files) > 0 {
			b.WriteString("\n**Main Python files found:**\n")
			for i, f := range files {
				if i == maxListedFiles {
					fmt.Fprintf(&b, "... and %d more files\n", len(files)-maxListedFiles)
					break
				}
				fmt.Fprintf(&b, "- `%s`\n", f)
			}
		}
	}

	return b.String(), nil
}

// FetchDocumentation returns the app README content.
func (e *Engine) FetchDocumentation(ctx context.Context, it model.Item) (string, error) {
	p := firstExisting(it.Path, readmeFiles)
	if p == "" {
		return "", fmt.Errorf("no README file for %s: %w", it.Name, model.ErrNotFound)
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("could not read %s: %w", filepath.Base(p), err)
	}

	return string(data), nil
}
