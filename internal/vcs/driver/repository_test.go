package driver

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeDriver records invocations and returns canned stdout keyed by the
// joined argv, so repository tests exercise the exact argument vectors
// spec.md §4.4 requires without shelling out to a real executable.
type fakeDriver struct {
	responses map[string]string
	calls     []string
	rawCalls  [][]string
}

func (f *fakeDriver) key(args ...string) string {
	return strings.Join(args, " ")
}

func (f *fakeDriver) Execute(_ context.Context, _ string, args ...string) (string, error) {
	k := f.key(args...)
	f.calls = append(f.calls, k)
	f.rawCalls = append(f.rawCalls, append([]string(nil), args...))
	return f.responses[k], nil
}

func TestRepository_IsEmpty(t *testing.T) {
	fd := &fakeDriver{responses: map[string]string{"branch": "  \n"}}
	repo := NewRepository(fd, "/repo")

	empty, err := repo.IsEmpty(context.Background())
	require.NoError(t, err)
	require.True(t, empty)
}

func TestRepository_Commit_CleanWorkingDirectory(t *testing.T) {
	fd := &fakeDriver{responses: map[string]string{
		"commit -m no changes --author=Jane": "On branch main\nnothing to commit, working directory clean\n",
	}}
	repo := NewRepository(fd, "/repo")

	detail, err := repo.Commit(context.Background(), "no changes", "Jane")
	require.NoError(t, err)
	require.Nil(t, detail)

	for _, c := range fd.calls {
		require.NotContains(t, c, "show HEAD", "commit must not invoke show HEAD when working directory is clean")
	}
}

// Commit is passed directly to exec.CommandContext with no shell
// involved, so the message and author must reach the driver as their
// own argv elements, with no manual quoting wrapped around them.
func TestRepository_Commit_PassesUnquotedArgv(t *testing.T) {
	fd := &fakeDriver{responses: map[string]string{
		`commit -m hello "world" --author=Jane Doe`: "nothing to commit, working directory clean\n",
	}}
	repo := NewRepository(fd, "/repo")

	detail, err := repo.Commit(context.Background(), `hello "world"`, "Jane Doe")
	require.NoError(t, err)
	require.Nil(t, detail)

	require.Len(t, fd.rawCalls, 1)
	require.Equal(t, []string{"commit", "-m", `hello "world"`, "--author=Jane Doe"}, fd.rawCalls[0])
}

func TestRepository_Diff_EmptyStatusShortCircuits(t *testing.T) {
	fd := &fakeDriver{responses: map[string]string{"status --porcelain": ""}}
	repo := NewRepository(fd, "/repo")

	detail, err := repo.Diff(context.Background())
	require.NoError(t, err)
	require.Nil(t, detail)
	require.Equal(t, []string{"status --porcelain"}, fd.calls)
}

func TestRepository_Diff_StagesAndComposesDetail(t *testing.T) {
	fd := &fakeDriver{responses: map[string]string{
		"status --porcelain": " M src/a.txt\n",
		"add .":               "",
		"diff --no-ext-diff -p --numstat --shortstat --staged": "1\t0\tsrc/a.txt\n1 files changed, 1 insertions(+), 0 deletions(-)\n",
		"diff --name-status --staged":                          "M\tsrc/a.txt\n",
	}}
	repo := NewRepository(fd, "/repo")

	detail, err := repo.Diff(context.Background())
	require.NoError(t, err)
	require.NotNil(t, detail)
	require.Nil(t, detail.ChangeSet)
	require.Contains(t, detail.Files, "src/a.txt")
}
