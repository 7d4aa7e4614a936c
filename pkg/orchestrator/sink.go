package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/goliatone/go-thesisforge/pkg/render"
)

// Sink persists artifacts. Folder is the sanitized rule folder, empty for
// artifacts that belong at the output root.
type Sink interface {
	Write(ctx context.Context, folder string, artifact render.Artifact) (string, error)
}

// DirSink writes artifacts under Root/<folder>/<file name>. Files are replaced
// atomically so an interrupted run never leaves a truncated document.
type DirSink struct {
	Root string
}

// NewDirSink returns a sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{Root: dir}
}

func (s *DirSink) Write(ctx context.Context, folder string, artifact render.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if artifact.FileName == "" {
		return "", fmt.Errorf("orchestrator: artifact for %q has no file name", artifact.RuleID)
	}
	dir := filepath.Join(s.Root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("orchestrator: create %s: %w", dir, err)
	}
	target := filepath.Join(dir, artifact.FileName)
	if err := atomic.WriteFile(target, artifact.Reader()); err != nil {
		return "", fmt.Errorf("orchestrator: write %s: %w", target, err)
	}
	return target, nil
}

// MemorySink keeps artifacts in memory keyed by slash-separated path.
type MemorySink struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func (s *MemorySink) Write(ctx context.Context, folder string, artifact render.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := path.Join(folder, artifact.FileName)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = append([]byte(nil), artifact.Data...)
	return key, nil
}

// File returns the stored bytes for key.
func (s *MemorySink) File(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[key]
	return data, ok
}

// Paths lists stored keys in sorted order.
func (s *MemorySink) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for key := range s.files {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
