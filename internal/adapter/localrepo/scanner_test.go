package localrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloop/internal/domain"
)

// mkrepo creates dir (and parents) with a .git directory inside.
func mkrepo(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))
}

func paths(repos []domain.LocalRepo) []string {
	out := make([]string, len(repos))
	for i, r := range repos {
		out[i] = r.Path
	}
	return out
}

func TestScanFindsSortedRepos(t *testing.T) {
	root := t.TempDir()
	mkrepo(t, filepath.Join(root, "zeta"))
	mkrepo(t, filepath.Join(root, "alpha"))
	mkrepo(t, filepath.Join(root, "work", "api"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "notes"), 0755))

	repos, err := New(3, nil).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "alpha"),
		filepath.Join(root, "work", "api"),
		filepath.Join(root, "zeta"),
	}, paths(repos))
	assert.Equal(t, "api", repos[1].Name)
}

func TestScanDoesNotDescendIntoRepos(t *testing.T) {
	root := t.TempDir()
	mkrepo(t, filepath.Join(root, "mono"))
	mkrepo(t, filepath.Join(root, "mono", "nested"))

	repos, err := New(5, nil).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "mono")}, paths(repos))
}

func TestScanSkipsHiddenAndVendorDirs(t *testing.T) {
	root := t.TempDir()
	mkrepo(t, filepath.Join(root, ".cache", "hidden"))
	mkrepo(t, filepath.Join(root, "node_modules", "dep"))
	mkrepo(t, filepath.Join(root, "vendor", "lib"))
	mkrepo(t, filepath.Join(root, "app"))

	repos, err := New(3, nil).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "app")}, paths(repos))
}

func TestScanRespectsMaxDepth(t *testing.T) {
	root := t.TempDir()
	mkrepo(t, filepath.Join(root, "a", "b", "c", "deep"))
	mkrepo(t, filepath.Join(root, "a", "shallow"))

	repos, err := New(2, nil).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a", "shallow")}, paths(repos))
}

func TestScanRootIsRepo(t *testing.T) {
	root := t.TempDir()
	mkrepo(t, root)

	repos, err := New(3, nil).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{root}, paths(repos))
}

func TestScanWorktreeGitFile(t *testing.T) {
	root := t.TempDir()
	wt := filepath.Join(root, "worktree")
	require.NoError(t, os.MkdirAll(wt, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(wt, ".git"), []byte("gitdir: ../x"), 0644))

	repos, err := New(3, nil).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{wt}, paths(repos))
}

func TestScanErrors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	s := New(3, nil)
	_, err := s.Scan(context.Background(), filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, domain.ErrFolderNotFound)

	_, err = s.Scan(context.Background(), file)
	assert.ErrorIs(t, err, domain.ErrNotADirectory)

	_, err = s.Scan(context.Background(), root)
	assert.ErrorIs(t, err, domain.ErrNoRepositories)
}

func TestScanNotFoundSuggestsSibling(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "projects"), 0755))

	_, err := New(3, nil).Scan(context.Background(), filepath.Join(root, "projcts"))
	require.ErrorIs(t, err, domain.ErrFolderNotFound)
	assert.Contains(t, err.Error(), "did you mean "+filepath.Join(root, "projects"))
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	mkrepo(t, filepath.Join(root, "app"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(3, nil).Scan(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSuggest(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"code", "documents", ".hidden"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0755))
	}

	assert.Equal(t, filepath.Join(root, "code"), Suggest(filepath.Join(root, "cod")))
	assert.Equal(t, filepath.Join(root, "documents"), Suggest(filepath.Join(root, "Documets")))
	assert.Empty(t, Suggest(filepath.Join(root, "xyzzy")))
	assert.Empty(t, Suggest(filepath.Join(root, "nope", "deeper")))
}

func TestNewDefaults(t *testing.T) {
	s := New(0, nil)
	assert.Equal(t, defaultMaxDepth, s.MaxDepth)
	assert.NotNil(t, s.Logger)
}
