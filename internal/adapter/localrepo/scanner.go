// Package localrepo finds git repositories under a local folder for the
// folder and local-repo steps.
package localrepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"bloop/internal/domain"
)

const defaultMaxDepth = 3

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"dist":         true,
}

// Scanner walks a folder looking for directories that contain .git.
type Scanner struct {
	MaxDepth int
	Logger   *slog.Logger
}

// New creates a Scanner bounded to maxDepth levels below the root.
func New(maxDepth int, logger *slog.Logger) *Scanner {
	if maxDepth < 1 {
		maxDepth = defaultMaxDepth
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{MaxDepth: maxDepth, Logger: logger}
}

// Scan returns the repositories under root sorted by path. A repository's
// own subdirectories are not searched.
func (s *Scanner) Scan(ctx context.Context, root string) ([]domain.LocalRepo, error) {
	root, err := expandHome(root)
	if err != nil {
		return nil, domain.WrapOp("localrepo.Scan", err)
	}
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			detail := root
			if hint := Suggest(root); hint != "" {
				detail = fmt.Sprintf("%s (did you mean %s?)", root, hint)
			}
			return nil, domain.NewDomainError("localrepo.Scan", domain.ErrFolderNotFound, detail)
		}
		return nil, domain.WrapOp("localrepo.Scan", err)
	}
	if !info.IsDir() {
		return nil, domain.NewDomainError("localrepo.Scan", domain.ErrNotADirectory, root)
	}

	var repos []domain.LocalRepo
	rootDepth := depth(root)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			// Unreadable subtrees are skipped, not fatal.
			s.Logger.Debug("localrepo: skip unreadable", "path", path, "error", walkErr)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || skipDirs[name]) {
			return filepath.SkipDir
		}
		if isRepo(path) {
			repos = append(repos, domain.LocalRepo{Name: filepath.Base(path), Path: path})
			return filepath.SkipDir
		}
		if depth(path)-rootDepth >= s.MaxDepth {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, domain.WrapOp("localrepo.Scan", err)
	}

	if len(repos) == 0 {
		return nil, domain.NewDomainError("localrepo.Scan", domain.ErrNoRepositories, root)
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i].Path < repos[j].Path })
	s.Logger.Debug("localrepo: scan complete", "root", root, "repos", len(repos))
	return repos, nil
}

// Suggest returns the sibling directory whose name is closest to the last
// element of path, or "" when nothing is close.
func Suggest(path string) string {
	parent, base := filepath.Split(filepath.Clean(path))
	if parent == "" {
		parent = "."
	}
	entries, err := os.ReadDir(parent)
	if err != nil {
		return ""
	}

	best, bestDist := "", len(base)/2+1
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dist := levenshtein.ComputeDistance(strings.ToLower(base), strings.ToLower(e.Name()))
		if dist < bestDist {
			best, bestDist = e.Name(), dist
		}
	}
	if best == "" {
		return ""
	}
	return filepath.Join(parent, best)
}

func isRepo(dir string) bool {
	// .git is a directory in a clone and a file in a worktree.
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

func depth(path string) int {
	return strings.Count(path, string(filepath.Separator))
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
