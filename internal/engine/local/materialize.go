package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/slok/appstore/internal/model"
)

// MaterializeCategorized organizes every app in a `<apps>/<category>/<name>` folder. Apps are
// symlinked, when the symlink can't be created the app folder is copied.
func (e *Engine) MaterializeCategorized(ctx context.Context, c model.Catalog) error {
	for _, cat := range model.Categories() {
		if err := os.MkdirAll(filepath.Join(e.appsPath, string(cat)), 0o755); err != nil {
			return fmt.Errorf("could not create category folder %s: %w", cat, err)
		}
	}

	var errs []error
	for _, it := range c {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := e.materializeItem(it); err != nil {
			e.logger.Errorf("Could not organize %s: %s", it.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", it.Name, err))
			continue
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("could not organize %d apps: %w", len(errs), errors.Join(errs...))
	}

	e.logger.Infof("Organized %d apps into %s", len(c), e.appsPath)
	return nil
}

func (e *Engine) materializeItem(it model.Item) error {
	if !it.Category.Valid() {
		return fmt.Errorf("unknown category %q: %w", it.Category, model.ErrNotValid)
	}

	src, err := filepath.Abs(it.Path)
	if err != nil {
		return fmt.Errorf("could not resolve app path: %w", err)
	}
	dst := filepath.Join(e.appsPath, string(it.Category), it.Name)

	if _, err := os.Lstat(dst); err == nil {
		if err := os.RemoveAll(dst); err != nil {
			return fmt.Errorf("could not remove previous app: %w", err)
		}
	}

	// Root level apps are a single file, linking the repository root would nest it into itself.
	repo, err := filepath.Abs(e.repoPath)
	if err != nil {
		return fmt.Errorf("could not resolve repository path: %w", err)
	}
	if src == repo {
		return e.materializeFile(it, filepath.Join(src, it.MainFile), dst)
	}

	err = os.Symlink(src, dst)
	if err == nil {
		return nil
	}

	e.logger.Warningf("Could not symlink %s, copying instead: %s", it.Name, err)
	if err := copyDir(src, dst); err != nil {
		return fmt.Errorf("could not copy app: %w", err)
	}

	return nil
}

func (e *Engine) materializeFile(it model.Item, src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return fmt.Errorf("could not create app folder: %w", err)
	}
	target := filepath.Join(dst, filepath.Base(src))

	err := os.Symlink(src, target)
	if err == nil {
		return nil
	}

	e.logger.Warningf("Could not symlink %s, copying instead: %s", it.Name, err)
	if err := copyFile(src, target); err != nil {
		return fmt.Errorf("could not copy app: %w", err)
	}

	return nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type().IsRegular():
			return copyFile(p, target)
		default:
			// Skip symlinks and special files.
			return nil
		}
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
