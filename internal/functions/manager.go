// Package functions implements the function-metadata manager: it
// enumerates function directories inside a deployment site, reads each
// function's configuration document, derives the set of event-source
// trigger bindings declared across all functions, and posts that
// aggregate to the deployment runtime's operations endpoint. It also
// exposes per-function CRUD over the on-disk layout.
package functions

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/deployrt/scmcore/internal/functions/model"
	"github.com/deployrt/scmcore/internal/jsonvalue"
	"github.com/deployrt/scmcore/internal/observability"
	"github.com/deployrt/scmcore/internal/operations"
	apperrors "github.com/deployrt/scmcore/pkg/errors"
	"github.com/deployrt/scmcore/pkg/logger"
)

const (
	functionConfigFile = "function.json"
	hostConfigFile     = "host.json"
)

// Config holds the manager's on-disk roots and the public base URL used
// to derive virtual-filesystem hrefs. All fields are immutable once the
// Manager is constructed, per the no-shared-mutable-state rule.
type Config struct {
	// SiteRoot is the root directory the virtual filesystem namespace is
	// relative to.
	SiteRoot string
	// FunctionsRoot holds one subdirectory per function plus host.json.
	FunctionsRoot string
	// DataRoot holds sample-data and secrets auxiliary files.
	DataRoot string
	// LogRoot holds per-function log directories.
	LogRoot string
	// AppBaseURL is prefixed to every derived href.
	AppBaseURL string
}

// Manager is the function metadata manager (C5). It holds its
// collaborators by injection and introduces no package-level state.
type Manager struct {
	fs       Filesystem
	triggers *operations.TriggersClient
	cfg      Config
	log      *logger.Logger
}

// NewManager builds a Manager from its collaborators and configuration.
func NewManager(fs Filesystem, client operations.Client, cfg Config, log *logger.Logger) *Manager {
	return &Manager{
		fs:       fs,
		triggers: operations.NewTriggersClient(client),
		cfg:      cfg,
		log:      log,
	}
}

// UpdateRequest is the payload accepted by CreateOrUpdate. When Files is
// non-nil it replaces the function directory's contents wholesale;
// otherwise Config is written out as the function's function.json
// (an empty object if Config is the zero Value).
type UpdateRequest struct {
	Config jsonvalue.Value
	Files  map[string]string
}

func (m *Manager) functionDir(name string) string {
	return filepath.Join(m.cfg.FunctionsRoot, name)
}

func (m *Manager) configPath(name string) string {
	return filepath.Join(m.functionDir(name), functionConfigFile)
}

func (m *Manager) hostConfigPath() string {
	return filepath.Join(m.cfg.FunctionsRoot, hostConfigFile)
}

func (m *Manager) sampleDataPath(name string) string {
	return filepath.Join(m.cfg.DataRoot, "functions", "sampledata", name+".dat")
}

func (m *Manager) secretsPath(name string) string {
	return filepath.Join(m.cfg.DataRoot, "functions", "secrets", name+".json")
}

func (m *Manager) logDirPath(name string) string {
	return filepath.Join(m.cfg.LogRoot, "functions", "function", name)
}

// List enumerates immediate subdirectories of the functions root and
// returns the envelope for each one that has a valid function.json.
// Directories missing the file or whose file fails to parse are
// silently omitted; order matches the filesystem's directory-iteration
// order.
func (m *Manager) List(ctx context.Context) ([]model.FunctionEnvelope, error) {
	names, err := m.fs.GetDirectories(m.cfg.FunctionsRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: list functions: %v", apperrors.ErrStorageError, err)
	}

	envelopes := make([]model.FunctionEnvelope, 0, len(names))
	for _, name := range names {
		env, ok, err := m.readEnvelope(ctx, name)
		if err != nil || !ok {
			continue
		}
		envelopes = append(envelopes, env)
	}
	return envelopes, nil
}

// Get reads and returns the named function's envelope, failing with
// NotFound when the config file is missing or does not parse as a JSON
// object.
func (m *Manager) Get(ctx context.Context, name string) (*model.FunctionEnvelope, error) {
	env, ok, err := m.readEnvelope(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("function %q", name), apperrors.ErrNotFound)
	}
	return &env, nil
}

func (m *Manager) readEnvelope(ctx context.Context, name string) (model.FunctionEnvelope, bool, error) {
	path := m.configPath(name)
	if !m.fs.Exists(path) {
		return model.FunctionEnvelope{}, false, nil
	}

	text, err := m.fs.ReadAllText(path)
	if err != nil {
		return model.FunctionEnvelope{}, false, nil
	}

	cfg, err := jsonvalue.Parse([]byte(text))
	if err != nil || cfg.Kind() != jsonvalue.KindObject {
		return model.FunctionEnvelope{}, false, nil
	}

	scriptHref, err := m.primaryScriptHref(ctx, name, cfg)
	if err != nil {
		return model.FunctionEnvelope{}, false, nil
	}

	env := model.FunctionEnvelope{
		Name:              name,
		Config:            cfg,
		ScriptRootHref:    m.vfsURI(m.functionDir(name), true),
		PrimaryScriptHref: scriptHref,
		ConfigFileHref:    m.vfsURI(path, false),
		TestDataHref:      m.vfsURI(m.sampleDataPath(name), false),
		SecretsHref:       m.vfsURI(m.secretsPath(name), false),
		SelfHref:          strings.TrimRight(m.cfg.AppBaseURL, "/") + "/api/functions/" + name,
	}
	return env, true, nil
}

// CreateOrUpdate ensures the function directory exists and writes its
// contents. When req.Files is set the directory's existing contents are
// discarded first and every (filename, text) pair is written in its
// place; otherwise function.json alone is (re)written from req.Config.
// It returns a freshly read envelope.
func (m *Manager) CreateOrUpdate(ctx context.Context, name string, req UpdateRequest) (*model.FunctionEnvelope, error) {
	dir := m.functionDir(name)
	if err := m.fs.EnsureDirectory(dir); err != nil {
		return nil, fmt.Errorf("%w: ensure function directory: %v", apperrors.ErrStorageError, err)
	}

	if req.Files != nil {
		m.fs.DeleteDirectoryContentsSafe(dir)
		for filename, content := range req.Files {
			if err := m.fs.WriteAllText(filepath.Join(dir, filename), content); err != nil {
				return nil, fmt.Errorf("%w: write %s: %v", apperrors.ErrStorageError, filename, err)
			}
		}
	} else {
		cfg := req.Config
		if cfg.IsNull() {
			cfg = jsonvalue.Object()
		}
		data, err := json.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: marshal function config: %v", apperrors.ErrStorageError, err)
		}
		if err := m.fs.WriteAllText(m.configPath(name), string(data)); err != nil {
			return nil, fmt.Errorf("%w: write function.json: %v", apperrors.ErrStorageError, err)
		}
	}

	return m.Get(ctx, name)
}

// Delete removes the function directory and its three auxiliary paths.
// Failures on the main directory are propagated (detected by checking
// the directory still exists after the Safe delete, since the Filesystem
// contract's Safe operations do not themselves return an error);
// failures on the auxiliaries are always swallowed.
func (m *Manager) Delete(ctx context.Context, name string) error {
	dir := m.functionDir(name)
	m.fs.DeleteDirectorySafe(dir, false)
	if m.fs.DirectoryExists(dir) {
		return fmt.Errorf("%w: delete function directory %q", apperrors.ErrStorageError, dir)
	}

	m.fs.DeleteFileSafe(m.sampleDataPath(name))
	m.fs.DeleteFileSafe(m.secretsPath(name))
	m.fs.DeleteDirectorySafe(m.logDirPath(name), true)
	return nil
}

// GetHostConfig reads the host-level configuration document as a JSON
// object; an absent file reads as the empty object.
func (m *Manager) GetHostConfig(ctx context.Context) (jsonvalue.Value, error) {
	path := m.hostConfigPath()
	if !m.fs.Exists(path) {
		return jsonvalue.Object(), nil
	}
	text, err := m.fs.ReadAllText(path)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%w: read host.json: %v", apperrors.ErrStorageError, err)
	}
	cfg, err := jsonvalue.Parse([]byte(text))
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%w: parse host.json: %v", apperrors.ErrParseFailed, err)
	}
	return cfg, nil
}

// PutHostConfig writes cfg as the host-level configuration document.
func (m *Manager) PutHostConfig(ctx context.Context, cfg jsonvalue.Value) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: marshal host.json: %v", apperrors.ErrStorageError, err)
	}
	return m.fs.WriteAllText(m.hostConfigPath(), string(data))
}

// SyncTriggers is the headline operation: it aggregates every trigger
// input binding declared across every enabled function and posts the
// aggregate to the operations endpoint. If host.json is absent, or the
// aggregate ends up empty, it returns without posting.
func (m *Manager) SyncTriggers(ctx context.Context) error {
	if !m.fs.Exists(m.hostConfigPath()) {
		observability.RecordSyncTriggers(false)
		return nil
	}

	envelopes, err := m.List(ctx)
	if err != nil {
		return err
	}

	var aggregate []jsonvalue.Value
	for _, env := range envelopes {
		aggregate = append(aggregate, m.collectTriggerBindings(env)...)
	}

	if len(aggregate) == 0 {
		observability.RecordSyncTriggers(false)
		return nil
	}

	if err := m.triggers.PostTriggers(ctx, aggregate); err != nil {
		return err
	}
	observability.RecordSyncTriggers(true)
	return nil
}

// collectTriggerBindings extracts the trigger-type input bindings from a
// single envelope. Any panic surfaced while walking a malformed config
// document is treated the same as the spec's "any exception" case:
// logged, the envelope skipped, the rest of the sync unaffected.
func (m *Manager) collectTriggerBindings(env model.FunctionEnvelope) (triggers []jsonvalue.Value) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Warn("sync_triggers: skipping function after failure",
				logger.String("name", env.Name),
				logger.Any("recover", r),
			)
			triggers = nil
		}
	}()

	if env.Disabled() {
		return nil
	}

	bindings, ok := env.Config.Path("bindings", "input").AsArray()
	if !ok {
		return nil
	}

	for _, binding := range bindings {
		typ, ok := binding.Get("type").AsString()
		if !ok {
			continue
		}
		if strings.HasSuffix(strings.ToLower(typ), "trigger") {
			triggers = append(triggers, binding)
		}
	}
	return triggers
}

// vfsURI derives the virtual-filesystem href for a path inside the site
// root, appending a trailing slash for directories.
func (m *Manager) vfsURI(path string, isDir bool) string {
	rel := strings.TrimPrefix(filepath.ToSlash(path), filepath.ToSlash(m.cfg.SiteRoot))
	rel = strings.TrimPrefix(rel, "/")

	uri := strings.TrimRight(m.cfg.AppBaseURL, "/") + "/api/vfs/" + rel
	if isDir && !strings.HasSuffix(uri, "/") {
		uri += "/"
	}
	return uri
}

// primaryScriptHref derives the script href for name's envelope,
// applying the primary-script selection rule from the function
// directory's file listing.
func (m *Manager) primaryScriptHref(ctx context.Context, name string, cfg jsonvalue.Value) (string, error) {
	dir := m.functionDir(name)

	files, err := m.fs.GetFiles(dir, "*", true)
	if err != nil {
		return "", fmt.Errorf("%w: list function files: %v", apperrors.ErrStorageError, err)
	}

	var candidates []string
	for _, f := range files {
		if f != functionConfigFile {
			candidates = append(candidates, f)
		}
	}

	switch len(candidates) {
	case 0:
		return m.vfsURI(dir, true), nil
	case 1:
		return m.vfsURI(filepath.Join(dir, candidates[0]), false), nil
	}

	for _, f := range candidates {
		if matched, _ := filepath.Match("run.*", f); matched {
			return m.vfsURI(filepath.Join(dir, f), false), nil
		}
	}
	for _, f := range candidates {
		if f == "index.js" {
			return m.vfsURI(filepath.Join(dir, f), false), nil
		}
	}
	if source, ok := cfg.Get("source").AsString(); ok && source != "" && !strings.Contains(source, "..") {
		return m.vfsURI(filepath.Join(dir, source), false), nil
	}

	return m.vfsURI(dir, true), nil
}
