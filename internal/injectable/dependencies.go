// Package injectable assembles the collaborators C1-C6 need from a
// loaded Config, the same one-shot wiring step the teacher's own
// injectable.Dependencies performs for its database-backed services.
package injectable

import (
	"path/filepath"

	"github.com/deployrt/scmcore/internal/config"
	"github.com/deployrt/scmcore/internal/functions"
	"github.com/deployrt/scmcore/internal/operations"
	"github.com/deployrt/scmcore/internal/vcs/driver"
	"github.com/deployrt/scmcore/pkg/logger"
)

// Dependencies holds every collaborator the transport layer (HTTP
// handlers, CLI commands) needs to reach C1-C6 without constructing
// them itself.
type Dependencies struct {
	Driver           driver.Driver
	Functions        *functions.Manager
	OperationsClient operations.Client

	gitExecutableRoot string
}

// LoadDependencies wires the concrete implementations named in
// SPEC_FULL.md §8 (ExecDriver, OSFilesystem, RestyClient) from cfg.
func LoadDependencies(cfg *config.Config, log *logger.Logger) Dependencies {
	d := driver.NewExecDriver(cfg.Git.ExecutablePath, cfg.Git.LocaleOverride)

	fs := functions.NewOSFilesystem(log)
	opsClient := operations.NewRestyClient(operations.Config{
		BaseURL: cfg.Operations.BaseURL,
		APIKey:  cfg.Operations.APIKey,
		Timeout: cfg.Operations.Timeout,
	})

	mgr := functions.NewManager(fs, opsClient, functions.Config{
		SiteRoot:      cfg.Functions.SiteRoot,
		FunctionsRoot: cfg.Functions.FunctionsRoot,
		DataRoot:      cfg.Functions.DataRoot,
		LogRoot:       cfg.Functions.LogRoot,
		AppBaseURL:    cfg.Functions.AppBaseURL,
	}, log)

	return Dependencies{
		Driver:           d,
		Functions:        mgr,
		OperationsClient: opsClient,

		gitExecutableRoot: cfg.Git.WorkingDirectoryRoot,
	}
}

// RepositoryFor returns a Repository rooted at <working-directory-root>/name,
// one per call since each repository operates on its own working directory.
func (d Dependencies) RepositoryFor(name string) *driver.Repository {
	return driver.NewRepository(d.Driver, filepath.Join(d.gitExecutableRoot, name))
}
