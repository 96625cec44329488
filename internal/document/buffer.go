package document

// Buffer lets the rewrite engine edit a program at the granularity the host
// editor exposes: line reads, a text-range replacement, and whole-line
// insertion. All edits are expressed as one of the two mutation primitives.
type Buffer interface {
	// LineCount reports how many lines the program currently has.
	LineCount() int

	// Line returns the text of line i (0-indexed), without a trailing '\n'.
	Line(i int) string

	// ReplaceRange replaces the text between (startLine,startCol) and
	// (endLine,endCol) with text. Columns are byte offsets; endCol is
	// exclusive. A zero-width range inserts text at that position.
	// Newlines in text split the result into multiple lines.
	ReplaceRange(startLine, startCol, endLine, endCol int, text string)

	// InsertLines inserts whole lines before index at, shifting line at and
	// everything after it down by len(lines). at == LineCount() appends.
	InsertLines(at int, lines []string)
}
