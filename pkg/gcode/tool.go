package gcode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ToolInfo describes the first tool a program references, taken from a
// structured comment emitted by the CAM post, e.g. "(T1 Router ZMIN=-10.5)".
// MinZ is the deepest cut the tool path reaches, or nil when the comment
// carries no ZMIN token.
type ToolInfo struct {
	Name string
	MinZ *float64
}

var (
	// Group 1: tool index, group 2: the comment remainder after "T<n> ".
	toolCommentRe = regexp.MustCompile(`^\(T(\d+)\s+(.+)$`)
	// Group 1: the minimum-Z value on a tool comment line.
	minZRe = regexp.MustCompile(`\bZMIN=(-?\d+(?:\.\d+)?)`)
	// Trailing "ZMIN=..." suffix stripped off the tool name.
	minZSuffixRe = regexp.MustCompile(`\s*ZMIN=-?\d+(?:\.\d+)?\s*\)?\s*$`)
)

// ParseToolComment extracts tool metadata from one line, or returns nil when
// the trimmed line does not begin with a "(T<index> " marker.
func ParseToolComment(line string) *ToolInfo {
	m := toolCommentRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil
	}
	info := &ToolInfo{}
	rest := m[2]
	if zm := minZRe.FindStringSubmatch(rest); zm != nil {
		if v, err := strconv.ParseFloat(zm[1], 64); err == nil {
			info.MinZ = &v
		}
	}
	name := minZSuffixRe.ReplaceAllString(rest, "")
	name = strings.TrimSuffix(strings.TrimSpace(name), ")")
	info.Name = strings.TrimSpace(name)
	return info
}

// LineSource is the read-only view of a program that metadata extraction
// scans. The in-memory document buffer satisfies it.
type LineSource interface {
	LineCount() int
	Line(i int) string
}

// FindToolInfo scans lines from the start and returns the first tool
// comment's metadata. Later tool comments are ignored; a program with no
// tool comment yields nil, which is an ordinary result, not a failure.
func FindToolInfo(src LineSource) *ToolInfo {
	for i := 0; i < src.LineCount(); i++ {
		if info := ParseToolComment(src.Line(i)); info != nil {
			return info
		}
	}
	return nil
}

// String renders the tool info the way job summaries print it.
func (t *ToolInfo) String() string {
	if t.MinZ == nil {
		return t.Name
	}
	return fmt.Sprintf("%s (min Z %s)", t.Name, strconv.FormatFloat(*t.MinZ, 'f', -1, 64))
}
