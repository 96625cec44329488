package document

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// MemoryBuffer implements Buffer over an in-memory slice of lines. It is both
// the production buffer for file-based programs and the test double for the
// engine: edits stay in memory until the caller writes them back.
type MemoryBuffer struct {
	lines []string
}

// NewMemoryBuffer builds a buffer from lines, copying the slice so later
// edits cannot alias the caller's data.
func NewMemoryBuffer(lines []string) *MemoryBuffer {
	cpy := make([]string, len(lines))
	copy(cpy, lines)
	return &MemoryBuffer{lines: cpy}
}

// Load reads a full program from r, one line per scanner token.
func Load(r io.Reader) (*MemoryBuffer, error) {
	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	return &MemoryBuffer{lines: lines}, nil
}

// LoadFile reads the program at path into a buffer.
func LoadFile(path string) (*MemoryBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program file %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

func (b *MemoryBuffer) LineCount() int    { return len(b.lines) }
func (b *MemoryBuffer) Line(i int) string { return b.lines[i] }

// Lines returns a copy of the buffer's current lines.
func (b *MemoryBuffer) Lines() []string {
	cpy := make([]string, len(b.lines))
	copy(cpy, b.lines)
	return cpy
}

// ReplaceRange replaces the text between (startLine,startCol) and
// (endLine,endCol) with text. Indexing past the buffer panics, the same as
// slice indexing would; the engine's bookkeeping keeps ranges exact.
func (b *MemoryBuffer) ReplaceRange(startLine, startCol, endLine, endCol int, text string) {
	prefix := b.lines[startLine][:startCol]
	suffix := b.lines[endLine][endCol:]
	replaced := strings.Split(prefix+text+suffix, "\n")

	out := make([]string, 0, len(b.lines)-(endLine-startLine+1)+len(replaced))
	out = append(out, b.lines[:startLine]...)
	out = append(out, replaced...)
	out = append(out, b.lines[endLine+1:]...)
	b.lines = out
}

// InsertLines inserts whole lines before index at.
func (b *MemoryBuffer) InsertLines(at int, lines []string) {
	out := make([]string, 0, len(b.lines)+len(lines))
	out = append(out, b.lines[:at]...)
	out = append(out, lines...)
	out = append(out, b.lines[at:]...)
	b.lines = out
}

// String renders the program as text, one '\n' per line.
func (b *MemoryBuffer) String() string {
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// SaveFile writes the program back to path.
func (b *MemoryBuffer) SaveFile(path string) error {
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write program file %s: %w", path, err)
	}
	return nil
}
