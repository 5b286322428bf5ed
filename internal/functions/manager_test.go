package functions

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deployrt/scmcore/internal/jsonvalue"
	"github.com/deployrt/scmcore/internal/operations"
)

// memFS is an in-memory Filesystem used so manager tests exercise exact
// directory/file semantics without touching the real filesystem.
type memFS struct {
	files        map[string]string
	dirs         map[string]bool
	getDirsCalls int
}

func newMemFS() *memFS {
	return &memFS{files: map[string]string{}, dirs: map[string]bool{}}
}

func (f *memFS) registerDirs(path string) {
	for d := filepath.Dir(path); d != "." && d != "/" && d != ""; d = filepath.Dir(d) {
		if f.dirs[d] {
			return
		}
		f.dirs[d] = true
	}
}

func (f *memFS) setFile(path, content string) {
	f.registerDirs(path)
	f.files[path] = content
}

func (f *memFS) setDir(path string) {
	f.dirs[path] = true
	f.registerDirs(path)
}

func (f *memFS) Exists(path string) bool {
	if _, ok := f.files[path]; ok {
		return true
	}
	return f.dirs[path]
}

func (f *memFS) DirectoryExists(path string) bool { return f.dirs[path] }

func (f *memFS) EnsureDirectory(path string) error {
	f.setDir(path)
	return nil
}

func (f *memFS) DeleteDirectorySafe(path string, ignoreErrors bool) {
	delete(f.dirs, path)
	prefix := path + "/"
	for k := range f.files {
		if strings.HasPrefix(k, prefix) {
			delete(f.files, k)
		}
	}
	for k := range f.dirs {
		if strings.HasPrefix(k, prefix) {
			delete(f.dirs, k)
		}
	}
}

func (f *memFS) DeleteDirectoryContentsSafe(path string) {
	prefix := path + "/"
	for k := range f.files {
		if strings.HasPrefix(k, prefix) {
			delete(f.files, k)
		}
	}
}

func (f *memFS) DeleteFileSafe(path string) { delete(f.files, path) }

func (f *memFS) GetDirectories(path string) ([]string, error) {
	f.getDirsCalls++
	clean := filepath.Clean(path)
	var names []string
	for d := range f.dirs {
		if filepath.Dir(d) == clean {
			names = append(names, filepath.Base(d))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *memFS) GetFiles(path, pattern string, topOnly bool) ([]string, error) {
	clean := filepath.Clean(path)
	var names []string
	for k := range f.files {
		dir := filepath.Dir(k)
		if topOnly && dir != clean {
			continue
		}
		if !topOnly && dir != clean && !strings.HasPrefix(k, clean+string(filepath.Separator)) {
			continue
		}
		base := filepath.Base(k)
		matched, err := filepath.Match(pattern, base)
		if err != nil {
			return nil, err
		}
		if matched {
			names = append(names, base)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *memFS) ReadAllText(path string) (string, error) {
	if c, ok := f.files[path]; ok {
		return c, nil
	}
	return "", os.ErrNotExist
}

func (f *memFS) WriteAllText(path, content string) error {
	f.setFile(path, content)
	return nil
}

var _ Filesystem = (*memFS)(nil)

type postCall struct {
	path string
	body any
}

type fakeOpsClient struct {
	posts []postCall
}

func (c *fakeOpsClient) Post(_ context.Context, relativePath string, body any) error {
	c.posts = append(c.posts, postCall{path: relativePath, body: body})
	return nil
}

func newTestManager(fs *memFS, ops operations.Client) *Manager {
	cfg := Config{
		SiteRoot:      "/site",
		FunctionsRoot: "/site/functions",
		DataRoot:      "/site/data",
		LogRoot:       "/site/logs",
		AppBaseURL:    "https://example.com",
	}
	return NewManager(fs, ops, cfg, nil)
}

func TestSyncTriggers_ScenarioA_OneTriggerOneNonTrigger(t *testing.T) {
	fs := newMemFS()
	fs.setFile("/site/functions/host.json", "{}")
	fs.setFile("/site/functions/foo/function.json",
		`{"bindings":{"input":[{"type":"queueTrigger","name":"q"},{"type":"table","name":"t"}]}}`)

	ops := &fakeOpsClient{}
	m := newTestManager(fs, ops)

	err := m.SyncTriggers(context.Background())
	require.NoError(t, err)
	require.Len(t, ops.posts, 1)
	require.Equal(t, operations.TriggersPath, ops.posts[0].path)

	got, err := json.Marshal(ops.posts[0].body)
	require.NoError(t, err)
	require.JSONEq(t, `[{"type":"queueTrigger","name":"q"}]`, string(got))
}

func TestSyncTriggers_ScenarioB_DisabledFunctionYieldsNoPost(t *testing.T) {
	fs := newMemFS()
	fs.setFile("/site/functions/host.json", "{}")
	fs.setFile("/site/functions/foo/function.json",
		`{"disabled":true,"bindings":{"input":[{"type":"httpTrigger"}]}}`)

	ops := &fakeOpsClient{}
	m := newTestManager(fs, ops)

	err := m.SyncTriggers(context.Background())
	require.NoError(t, err)
	require.Empty(t, ops.posts)
}

func TestSyncTriggers_ScenarioF_NoHostConfigSkipsEnumeration(t *testing.T) {
	fs := newMemFS()
	fs.setFile("/site/functions/foo/function.json", `{"bindings":{"input":[{"type":"queueTrigger"}]}}`)

	ops := &fakeOpsClient{}
	m := newTestManager(fs, ops)

	err := m.SyncTriggers(context.Background())
	require.NoError(t, err)
	require.Empty(t, ops.posts)
	require.Zero(t, fs.getDirsCalls, "sync_triggers must not enumerate functions when host.json is absent")
}

func TestPrimaryScriptSelection_ScenarioC(t *testing.T) {
	fs := newMemFS()
	fs.setFile("/site/functions/foo/function.json", `{}`)
	fs.setFile("/site/functions/foo/run.csx", "// entrypoint")
	fs.setFile("/site/functions/foo/helper.csx", "// helper")

	m := newTestManager(fs, &fakeOpsClient{})

	env, err := m.Get(context.Background(), "foo")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(env.PrimaryScriptHref, "/foo/run.csx"))
}

func TestPrimaryScriptSelection_ConfigSourceRejectsParentTraversal(t *testing.T) {
	fs := newMemFS()
	fs.setFile("/site/functions/foo/function.json", `{"source":"../../etc/passwd"}`)
	fs.setFile("/site/functions/foo/a.txt", "a")
	fs.setFile("/site/functions/foo/b.txt", "b")

	m := newTestManager(fs, &fakeOpsClient{})

	env, err := m.Get(context.Background(), "foo")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(env.PrimaryScriptHref, "/foo/"), "traversal source must fall back to the directory href")
}

func TestList_SilentlyOmitsMissingOrInvalidConfigs(t *testing.T) {
	fs := newMemFS()
	fs.setDir("/site/functions/broken")
	fs.setFile("/site/functions/broken/notfunctionjson.txt", "x")
	fs.setFile("/site/functions/invalid/function.json", "not json")
	fs.setFile("/site/functions/good/function.json", `{"bindings":{}}`)

	m := newTestManager(fs, &fakeOpsClient{})

	envelopes, err := m.List(context.Background())
	require.NoError(t, err)
	require.Len(t, envelopes, 1)
	require.Equal(t, "good", envelopes[0].Name)
}

func TestListCreateOrUpdateRoundTrip(t *testing.T) {
	fs := newMemFS()
	m := newTestManager(fs, &fakeOpsClient{})
	ctx := context.Background()

	config := `{"bindings":{"input":[{"type":"httpTrigger"}]}}`
	_, err := m.CreateOrUpdate(ctx, "greet", UpdateRequest{
		Files: map[string]string{
			"function.json": config,
			"run.js":        "module.exports = () => {}",
		},
	})
	require.NoError(t, err)

	envelopes, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, envelopes, 1)
	require.Equal(t, "greet", envelopes[0].Name)

	got, err := json.Marshal(envelopes[0].Config)
	require.NoError(t, err)
	require.JSONEq(t, config, string(got))
}

func TestHostConfigRoundTrip(t *testing.T) {
	fs := newMemFS()
	m := newTestManager(fs, &fakeOpsClient{})
	ctx := context.Background()

	original, err := jsonvalue.Parse([]byte(`{"z":1,"a":{"nested":true},"list":[1,2,3]}`))
	require.NoError(t, err)

	require.NoError(t, m.PutHostConfig(ctx, original))

	roundTripped, err := m.GetHostConfig(ctx)
	require.NoError(t, err)

	a, err := json.Marshal(roundTripped)
	require.NoError(t, err)
	require.JSONEq(t, `{"z":1,"a":{"nested":true},"list":[1,2,3]}`, string(a))
}

func TestGetHostConfig_AbsentFileReadsAsEmptyObject(t *testing.T) {
	fs := newMemFS()
	m := newTestManager(fs, &fakeOpsClient{})

	cfg, err := m.GetHostConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, jsonvalue.KindObject, cfg.Kind())
	require.Empty(t, cfg.Keys())
}

func TestDelete_RemovesMainDirectoryAndAuxiliaries(t *testing.T) {
	fs := newMemFS()
	fs.setFile("/site/functions/foo/function.json", `{}`)
	fs.setFile("/site/data/functions/sampledata/foo.dat", "sample")
	fs.setFile("/site/data/functions/secrets/foo.json", `{}`)
	fs.setDir("/site/logs/functions/function/foo")

	m := newTestManager(fs, &fakeOpsClient{})
	require.NoError(t, m.Delete(context.Background(), "foo"))

	require.False(t, fs.DirectoryExists("/site/functions/foo"))
	require.False(t, fs.Exists("/site/data/functions/sampledata/foo.dat"))
	require.False(t, fs.Exists("/site/data/functions/secrets/foo.json"))
}

func TestURIDerivation(t *testing.T) {
	fs := newMemFS()
	fs.setFile("/site/functions/foo/function.json", `{}`)
	fs.setFile("/site/functions/foo/run.js", "x")

	m := newTestManager(fs, &fakeOpsClient{})
	env, err := m.Get(context.Background(), "foo")
	require.NoError(t, err)

	require.Equal(t, "https://example.com/api/vfs/functions/foo/", env.ScriptRootHref)
	require.Equal(t, "https://example.com/api/vfs/functions/foo/function.json", env.ConfigFileHref)
}
