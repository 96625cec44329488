package session

import (
	"os"
	"sync"

	"gcodeopt/internal/state"
)

// ToolStore abstracts tool-state persistence for testability.
type ToolStore interface {
	Load() (state.ToolState, error)
	Save(state.ToolState) error
}

// FileToolStore implements ToolStore using a JSON file. A missing file reads
// as the zero state: no tool has been recorded yet.
type FileToolStore struct {
	File string
}

func NewFileToolStore(file string) *FileToolStore {
	return &FileToolStore{File: file}
}

func (fs *FileToolStore) Load() (state.ToolState, error) {
	t, err := state.LoadFromFile(fs.File)
	if os.IsNotExist(err) {
		return state.ToolState{}, nil
	}
	if err != nil {
		return state.ToolState{}, err
	}
	return *t, nil
}

func (fs *FileToolStore) Save(t state.ToolState) error {
	return t.SaveToFile(fs.File)
}

// InMemoryToolStore implements ToolStore for testing (no disk I/O).
type InMemoryToolStore struct {
	mu    sync.Mutex
	state state.ToolState
}

func NewInMemoryToolStore() *InMemoryToolStore {
	return &InMemoryToolStore{}
}

func (ms *InMemoryToolStore) Load() (state.ToolState, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.state, nil
}

func (ms *InMemoryToolStore) Save(t state.ToolState) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.state = t
	return nil
}
