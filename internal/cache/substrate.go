package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
)

// MemorySubstrate is a concurrency-safe in-memory substrate.
type MemorySubstrate struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemorySubstrate creates an empty in-memory substrate.
func NewMemorySubstrate() *MemorySubstrate {
	return &MemorySubstrate{m: make(map[string][]byte)}
}

func (s *MemorySubstrate) Load(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.m[key]
	return data, ok
}

func (s *MemorySubstrate) Store(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = data
	return nil
}

// FileSubstrate persists entries as one file per key under a directory.
// It is best-effort: unreadable or unwritable files surface as misses.
type FileSubstrate struct {
	dir string
}

// NewFileSubstrate creates the directory if needed. An unusable directory
// still yields a working substrate; every operation will simply miss.
func NewFileSubstrate(dir string) *FileSubstrate {
	_ = os.MkdirAll(dir, 0o755)
	return &FileSubstrate{dir: dir}
}

func (s *FileSubstrate) Load(key string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *FileSubstrate) Store(key string, data []byte) error {
	return os.WriteFile(s.path(key), data, 0o644)
}

// path hashes the key so cache keys with separators stay file-name safe.
func (s *FileSubstrate) path(key string) string {
	sum := sha1.Sum([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}
