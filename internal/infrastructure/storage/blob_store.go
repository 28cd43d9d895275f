// Package storage holds uploaded documents. Blobs are addressed by a relative
// path and exposed to clients by URL.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	ErrInvalidPath  = errors.New("invalid blob path")
)

// BlobStore stores files and hands back the URL they can be fetched from.
type BlobStore interface {
	Put(ctx context.Context, blobPath string, content io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

func cleanPath(blobPath string) (string, error) {
	for _, segment := range strings.Split(blobPath, "/") {
		if segment == ".." {
			return "", ErrInvalidPath
		}
	}
	cleaned := path.Clean("/" + blobPath)
	if cleaned == "/" {
		return "", ErrInvalidPath
	}
	return strings.TrimPrefix(cleaned, "/"), nil
}

// ---------------------------------------------------------------------------
// Local disk
// ---------------------------------------------------------------------------

// LocalStore writes blobs below a root directory that is served over HTTP at baseURL.
type LocalStore struct {
	root    string
	baseURL string
	maxSize int64
}

func NewLocalStore(root, baseURL string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}, nil
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Put(ctx context.Context, blobPath string, content io.Reader) (string, error) {
	rel, err := cleanPath(blobPath)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}

	file, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}

	written, err := io.Copy(file, io.LimitReader(content, s.maxSize+1))
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && written > s.maxSize {
		err = ErrFileTooLarge
	}
	if err != nil {
		os.Remove(full)
		return "", err
	}

	return s.baseURL + "/" + rel, nil
}

func (s *LocalStore) Delete(ctx context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return ErrBlobNotFound
	}
	rel, err := cleanPath(rel)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel))); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrBlobNotFound
		}
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// In-memory
// ---------------------------------------------------------------------------

// MemoryStore keeps blobs in a map. Used in tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	blobs   map[string][]byte
	baseURL string
	maxSize int64
}

func NewMemoryStore(baseURL string, maxSize int64) *MemoryStore {
	return &MemoryStore{
		blobs:   make(map[string][]byte),
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}
}

func (s *MemoryStore) Put(_ context.Context, blobPath string, content io.Reader) (string, error) {
	rel, err := cleanPath(blobPath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(content, s.maxSize+1))
	if err != nil {
		return "", err
	}
	if n > s.maxSize {
		return "", ErrFileTooLarge
	}

	url := s.baseURL + "/" + rel
	s.mu.Lock()
	s.blobs[url] = buf.Bytes()
	s.mu.Unlock()
	return url, nil
}

func (s *MemoryStore) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[url]; !ok {
		return ErrBlobNotFound
	}
	delete(s.blobs, url)
	return nil
}

// Get returns the content stored under url.
func (s *MemoryStore) Get(url string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[url]
	return data, ok
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
