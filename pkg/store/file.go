package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// FileStore keeps one JSON file per tree in a directory. It serves a
// single process; concurrent writers from several processes may lose
// updates. ListTrees skips files it cannot parse and logs a warning for
// each.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	now     func() time.Time
	logger  *log.Logger
}

// NewFileStore creates a file-based store. If baseDir is empty it defaults
// to $XDG_DATA_HOME/familytree/trees (~/.local/share/familytree/trees).
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Join(dir, "trees")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{
		baseDir: baseDir,
		now:     time.Now,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}, nil
}

// SetLogger sets where unreadable tree files are reported.
func (s *FileStore) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

func defaultDataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "familytree"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "familytree"), nil
}

// Path returns the directory holding the tree files.
func (s *FileStore) Path() string {
	return s.baseDir
}

func (s *FileStore) treePath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// fileID reports whether id can name a file inside the store directory.
func fileID(id string) bool {
	return errors.ValidateID(id) == nil && !strings.ContainsAny(id, `/\`) && !strings.HasPrefix(id, ".")
}

func (s *FileStore) load(id string) (*Record, error) {
	if !fileID(id) {
		return nil, treeNotFound(id)
	}
	data, err := os.ReadFile(s.treePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, treeNotFound(id)
		}
		return nil, fmt.Errorf("read tree file: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse tree file %s: %w", id, err)
	}
	return &rec, nil
}

func (s *FileStore) save(rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tree: %w", err)
	}
	tmp, err := os.CreateTemp(s.baseDir, ".tree-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write tree file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write tree file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.treePath(rec.Tree.ID)); err != nil {
		return fmt.Errorf("write tree file: %w", err)
	}
	return nil
}

func (s *FileStore) CreateTree(_ context.Context, owner string, t *family.Tree) (*Record, error) {
	rec, err := newRecord(owner, t, s.now())
	if err != nil {
		return nil, err
	}
	if !fileID(rec.Tree.ID) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree ID %q cannot be stored as a file", rec.Tree.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.treePath(rec.Tree.ID)); err == nil {
		return nil, idTaken(rec.Tree.ID)
	}
	if err := s.save(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *FileStore) GetTree(_ context.Context, user, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := authorize(rec, user, canView, "view"); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *FileStore) PutTree(_ context.Context, user string, t *family.Tree) (*Record, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree is required")
	}
	var out *Record
	err := s.update(t.ID, func(r *Record) error {
		out = r
		return replaceTree(r, user, t, s.now())
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FileStore) DeleteTree(_ context.Context, user, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.load(id)
	if err != nil {
		return err
	}
	if err := authorize(rec, user, canManage, "delete"); err != nil {
		return err
	}
	if err := os.Remove(s.treePath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove tree file: %w", err)
	}
	return nil
}

func (s *FileStore) ListTrees(_ context.Context, user string) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}
	out := []Summary{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		rec, err := s.load(strings.TrimSuffix(name, ".json"))
		if err != nil {
			s.logger.Warn("skipping unreadable tree file", "file", filepath.Join(s.baseDir, name), "err", err)
			continue
		}
		if rec.Role(user).CanView() {
			out = append(out, rec.summary(user))
		}
	}
	sortSummaries(out)
	return out, nil
}

func (s *FileStore) Share(_ context.Context, user, id string, m family.Member) error {
	return s.update(id, func(r *Record) error { return share(r, user, m, s.now()) })
}

func (s *FileStore) Unshare(_ context.Context, user, id, member string) error {
	return s.update(id, func(r *Record) error { return unshare(r, user, member, s.now()) })
}

func (s *FileStore) Members(ctx context.Context, user, id string) ([]family.Member, error) {
	rec, err := s.GetTree(ctx, user, id)
	if err != nil {
		return nil, err
	}
	return rec.Members, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) update(id string, fn func(*Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.load(id)
	if err != nil {
		return err
	}
	if err := fn(rec); err != nil {
		return err
	}
	rec.Version++
	return s.save(rec)
}

var _ Store = (*FileStore)(nil)
