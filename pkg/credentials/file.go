package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const credentialsFileName = "credentials.json"

// FileStore implements Store on a single JSON file.
type FileStore struct {
	dataDir     string
	mu          sync.RWMutex
	credentials map[string]*Credential // authorizedAppId -> credential
}

// NewFileStore creates a file-based store rooted at dataDir, loading any
// existing credentials.
func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	fs := &FileStore{
		dataDir:     dataDir,
		credentials: make(map[string]*Credential),
	}

	if err := fs.load(); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	return fs, nil
}

// Get retrieves a credential by authorized app ID.
func (fs *FileStore) Get(_ context.Context, authorizedAppID string) (*Credential, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	credential, exists := fs.credentials[authorizedAppID]
	if !exists {
		return nil, ErrNotFound
	}

	copied := *credential

	return &copied, nil
}

// Save inserts or replaces a credential and flushes the file.
func (fs *FileStore) Save(_ context.Context, credential *Credential) error {
	if err := credential.Validate(); err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if existing, ok := fs.credentials[credential.AuthorizedAppID]; ok && credential.CreatedAt.IsZero() {
		credential.CreatedAt = existing.CreatedAt
	}

	credential.touch(time.Now().UTC())

	copied := *credential

	next := fs.snapshot()
	next[credential.AuthorizedAppID] = &copied

	return fs.commit(next)
}

// Delete removes a credential.
func (fs *FileStore) Delete(_ context.Context, authorizedAppID string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, exists := fs.credentials[authorizedAppID]; !exists {
		return ErrNotFound
	}

	next := fs.snapshot()
	delete(next, authorizedAppID)

	return fs.commit(next)
}

// HealthCheck verifies that the data directory is accessible.
func (fs *FileStore) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fs.dataDir); os.IsNotExist(err) {
		return fmt.Errorf("data directory does not exist: %s", fs.dataDir)
	}

	return nil
}

// Close flushes the credentials to disk.
func (fs *FileStore) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.flush(fs.credentials)
}

// snapshot returns a shallow copy of the credential map. Callers hold mu.
func (fs *FileStore) snapshot() map[string]*Credential {
	next := make(map[string]*Credential, len(fs.credentials)+1)
	for id, credential := range fs.credentials {
		next[id] = credential
	}

	return next
}

// commit writes next to disk and only then makes it visible. Callers hold mu.
func (fs *FileStore) commit(next map[string]*Credential) error {
	if err := fs.flush(next); err != nil {
		return err
	}

	fs.credentials = next

	return nil
}

func (fs *FileStore) load() error {
	path := filepath.Join(fs.dataDir, credentialsFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is built from the configured data directory
	if err != nil {
		return fmt.Errorf("failed to read credentials file: %w", err)
	}

	var stored []*Credential
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to unmarshal credentials: %w", err)
	}

	for _, credential := range stored {
		fs.credentials[credential.AuthorizedAppID] = credential
	}

	return nil
}

func (fs *FileStore) flush(credentials map[string]*Credential) error {
	path := filepath.Join(fs.dataDir, credentialsFileName)

	stored := make([]*Credential, 0, len(credentials))
	for _, credential := range credentials {
		stored = append(stored, credential)
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	return nil
}
