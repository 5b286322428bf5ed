package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/deployrt/scmcore/internal/vcs/model"
	"github.com/deployrt/scmcore/internal/vcs/parser"
	"github.com/deployrt/scmcore/internal/vcs/reader"
)

// Repository wraps a Driver and a working directory, exposing the
// higher-level operations spec.md §4.4 describes in terms of exact
// argument vectors passed to the underlying executable.
type Repository struct {
	driver     Driver
	workingDir string
}

// NewRepository returns a Repository rooted at workingDir.
func NewRepository(d Driver, workingDir string) *Repository {
	return &Repository{driver: d, workingDir: workingDir}
}

// CurrentID returns the current commit hash via `rev-parse HEAD`.
func (r *Repository) CurrentID(ctx context.Context) (string, error) {
	out, err := r.driver.Execute(ctx, r.workingDir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Init runs `init` followed by `config core.autocrlf true`.
func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.driver.Execute(ctx, r.workingDir, "init"); err != nil {
		return err
	}
	if _, err := r.driver.Execute(ctx, r.workingDir, "config", "core.autocrlf", "true"); err != nil {
		return err
	}
	return nil
}

// Status runs `status --porcelain` and returns the lazy FileStatus
// sequence.
func (r *Repository) Status(ctx context.Context) (*parser.StatusSeq, error) {
	out, err := r.driver.Execute(ctx, r.workingDir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parser.ParseStatusPorcelain(out), nil
}

// IsEmpty reports whether the repository has no commits yet, per the
// `branch` emptiness probe: the repo is empty when stdout is
// whitespace-only. Spec open question 2 leaves the behavior on a
// tool version that prints hints to stdout undefined; this
// implementation follows the documented probe as-is.
func (r *Repository) IsEmpty(ctx context.Context) (bool, error) {
	out, err := r.driver.Execute(ctx, r.workingDir, "branch")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "", nil
}

// Add stages a single path via `add <path>`.
func (r *Repository) Add(ctx context.Context, path string) error {
	_, err := r.driver.Execute(ctx, r.workingDir, "add", path)
	return err
}

// AddAll stages the whole working tree via `add .`.
func (r *Repository) AddAll(ctx context.Context) error {
	_, err := r.driver.Execute(ctx, r.workingDir, "add", ".")
	return err
}

// Remove unstages and removes a path via `rm <path> --cached`.
func (r *Repository) Remove(ctx context.Context, path string) error {
	_, err := r.driver.Execute(ctx, r.workingDir, "rm", path, "--cached")
	return err
}

// Commit runs `commit -m "<msg>" --author="<name>"`. Per the commit
// return contract, when stdout contains "working directory clean" the
// commit is a no-op and Commit returns (nil, nil) without invoking
// `show HEAD`; otherwise the new HEAD is parsed via Show.
func (r *Repository) Commit(ctx context.Context, message, authorName string) (*model.ChangeSetDetail, error) {
	out, err := r.driver.Execute(ctx, r.workingDir,
		"commit",
		"-m", message,
		"--author="+authorName,
	)
	if err != nil {
		return nil, err
	}
	if strings.Contains(out, "working directory clean") {
		return nil, nil
	}
	return r.Show(ctx, "HEAD")
}

// Checkout runs `checkout <id> --force`.
func (r *Repository) Checkout(ctx context.Context, id string) error {
	_, err := r.driver.Execute(ctx, r.workingDir, "checkout", id, "--force")
	return err
}

// Show runs `show <id> -m -p --numstat --shortstat` and
// `show <id> -m --name-status --format="%H"`, parsing the combination
// into a single ChangeSetDetail.
func (r *Repository) Show(ctx context.Context, id string) (*model.ChangeSetDetail, error) {
	numstatOut, err := r.driver.Execute(ctx, r.workingDir, "show", id, "-m", "-p", "--numstat", "--shortstat")
	if err != nil {
		return nil, err
	}
	detail, err := parser.ParseShow(reader.New(numstatOut), true)
	if err != nil {
		return nil, err
	}

	nameStatusOut, err := r.driver.Execute(ctx, r.workingDir, "show", id, "-m", "--name-status", "--format=%H")
	if err != nil {
		return nil, err
	}
	parser.PopulateNameStatus(nameStatusOut, detail)

	return detail, nil
}

// Log runs `log --all` and returns the lazy ChangeSet sequence.
func (r *Repository) Log(ctx context.Context) (*parser.CommitSeq, error) {
	out, err := r.driver.Execute(ctx, r.workingDir, "log", "--all")
	if err != nil {
		return nil, err
	}
	return parser.ParseLog(out), nil
}

// LogPage runs `log --all --skip N -n M` for paginated history.
func (r *Repository) LogPage(ctx context.Context, skip, limit int) (*parser.CommitSeq, error) {
	out, err := r.driver.Execute(ctx, r.workingDir,
		"log", "--all", "--skip", fmt.Sprintf("%d", skip), "-n", fmt.Sprintf("%d", limit))
	if err != nil {
		return nil, err
	}
	return parser.ParseLog(out), nil
}

// Diff implements the working-changes contract: if status is empty,
// returns (nil, nil); otherwise stages everything and composes a
// ChangeSetDetail with no ChangeSet from the staged diff.
func (r *Repository) Diff(ctx context.Context) (*model.ChangeSetDetail, error) {
	statusOut, err := r.driver.Execute(ctx, r.workingDir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(statusOut) == "" {
		return nil, nil
	}

	if err := r.AddAll(ctx); err != nil {
		return nil, err
	}

	numstatOut, err := r.driver.Execute(ctx, r.workingDir,
		"diff", "--no-ext-diff", "-p", "--numstat", "--shortstat", "--staged")
	if err != nil {
		return nil, err
	}
	detail, err := parser.ParseShow(reader.New(numstatOut), false)
	if err != nil {
		return nil, err
	}

	nameStatusOut, err := r.driver.Execute(ctx, r.workingDir, "diff", "--name-status", "--staged")
	if err != nil {
		return nil, err
	}
	parser.PopulateNameStatus(nameStatusOut, detail)

	return detail, nil
}
