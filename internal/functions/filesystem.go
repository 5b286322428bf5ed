package functions

import (
	"os"
	"path/filepath"

	"github.com/deployrt/scmcore/pkg/logger"
)

// Filesystem is the storage collaborator the Manager is built against.
// The "Safe" operations never fail the caller: they log and swallow,
// matching the auxiliary-cleanup and directory-reset semantics the
// manager relies on.
type Filesystem interface {
	Exists(path string) bool
	DirectoryExists(path string) bool
	EnsureDirectory(path string) error
	DeleteDirectorySafe(path string, ignoreErrors bool)
	DeleteDirectoryContentsSafe(path string)
	DeleteFileSafe(path string)
	GetDirectories(path string) ([]string, error)
	GetFiles(path, pattern string, topOnly bool) ([]string, error)
	ReadAllText(path string) (string, error)
	WriteAllText(path, content string) error
}

// OSFilesystem implements Filesystem over the local filesystem, adapted
// from the teacher's FilesystemStorage: same scoped-acquisition shape,
// but operating directly on the paths it is given rather than resolving
// them against a base directory, since the Manager already composes
// full paths from its configured roots.
type OSFilesystem struct {
	log *logger.Logger
}

// NewOSFilesystem builds an OSFilesystem that logs swallowed errors
// through log.
func NewOSFilesystem(log *logger.Logger) *OSFilesystem {
	return &OSFilesystem{log: log}
}

func (f *OSFilesystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (f *OSFilesystem) DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (f *OSFilesystem) EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0o755)
}

// DeleteDirectorySafe removes path and everything under it. When
// ignoreErrors is false the failure is still logged at warn level
// rather than propagated, since the interface is swallow-by-contract;
// callers that need propagation check DirectoryExists afterward.
func (f *OSFilesystem) DeleteDirectorySafe(path string, ignoreErrors bool) {
	if err := os.RemoveAll(path); err != nil {
		if ignoreErrors {
			f.log.Debug("swallowed directory delete failure", logger.String("path", path), logger.Any("error", err))
		} else {
			f.log.Warn("directory delete failed", logger.String("path", path), logger.Any("error", err))
		}
	}
}

func (f *OSFilesystem) DeleteDirectoryContentsSafe(path string) {
	entries, err := os.ReadDir(path)
	if err != nil {
		f.log.Debug("swallowed directory contents read failure", logger.String("path", path), logger.Any("error", err))
		return
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(path, entry.Name())); err != nil {
			f.log.Debug("swallowed directory entry delete failure", logger.String("path", path), logger.Any("error", err))
		}
	}
}

func (f *OSFilesystem) DeleteFileSafe(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		f.log.Debug("swallowed file delete failure", logger.String("path", path), logger.Any("error", err))
	}
}

func (f *OSFilesystem) GetDirectories(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// GetFiles lists files (never directories) under path matching the glob
// pattern. When topOnly is false it walks subdirectories and returns
// paths relative to path.
func (f *OSFilesystem) GetFiles(path, pattern string, topOnly bool) ([]string, error) {
	if topOnly {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			matched, err := filepath.Match(pattern, entry.Name())
			if err != nil {
				return nil, err
			}
			if matched {
				names = append(names, entry.Name())
			}
		}
		return names, nil
	}

	var names []string
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		matched, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if matched {
			rel, err := filepath.Rel(path, p)
			if err != nil {
				return err
			}
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (f *OSFilesystem) ReadAllText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *OSFilesystem) WriteAllText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

var _ Filesystem = (*OSFilesystem)(nil)
