package state

import (
	"encoding/json"
	"os"
	"time"
)

// ToolState records the tool a program last ran with. It is persisted between
// invocations so a tool change can be flagged before the next job starts.
type ToolState struct {
	LastTool  string    `json:"last_tool"`  // Name from the program's tool comment
	UpdatedAt time.Time `json:"updated_at"` // When the tool was last recorded
}

// SaveToFile serializes the ToolState to a file as JSON.
func (t *ToolState) SaveToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// LoadFromFile deserializes a ToolState from a JSON file.
func LoadFromFile(path string) (*ToolState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var t ToolState
	dec := json.NewDecoder(f)
	if err := dec.Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}
