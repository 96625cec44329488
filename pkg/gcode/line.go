package gcode

import (
	"regexp"
	"strconv"
	"strings"
)

// Motion modes the rewrite engine distinguishes.
const (
	MotionRapid  = 0 // G0, maximum-speed positioning
	MotionLinear = 1 // G1, controlled-feed cutting
)

// RapidWord is the command word written in place of a promoted motion token.
const RapidWord = "G0"

// Patterns for the per-line fields the rewrite engine cares about. Only the
// first occurrence of each pattern per line is significant, mirroring the
// single-value words of a G-code command line.
var (
	// Group 1: the leading motion word ("G1"), group 2: its number.
	motionWordRe = regexp.MustCompile(`^\s*(G(\d+))`)
	// Group 1: the signed value of the first Z word.
	zWordRe = regexp.MustCompile(`Z(-?\d+(?:\.\d+)?)`)
	// Group 1: the value of the first F (feed rate) word.
	feedWordRe = regexp.MustCompile(`F(\d+(?:\.\d+)?)`)
	// Spindle start. The trailing \b keeps "M30" (program end) from matching.
	spindleRe = regexp.MustCompile(`\bM3\b`)
)

// LineInfo holds the fields extracted from a single line of program text.
// Absent fields are nil; extraction is permissive and never fails, because
// upstream program generators are trusted to emit well-formed numbers.
type LineInfo struct {
	MotionMode      *int
	Z               *float64
	Feed            *float64
	IsComment       bool
	HasSpindleStart bool
}

// ParseLine classifies one line of program text without needing context from
// other lines. A line is a comment when its first non-space character is '('.
func ParseLine(line string) LineInfo {
	var info LineInfo
	info.IsComment = strings.HasPrefix(strings.TrimLeft(line, " \t"), "(")
	if m := motionWordRe.FindStringSubmatch(line); m != nil {
		if v, err := strconv.Atoi(m[2]); err == nil {
			info.MotionMode = &v
		}
	}
	if m := zWordRe.FindStringSubmatch(line); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			info.Z = &v
		}
	}
	if m := feedWordRe.FindStringSubmatch(line); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			info.Feed = &v
		}
	}
	info.HasSpindleStart = spindleRe.MatchString(line)
	return info
}

// MotionTokenSpan returns the byte span [start,end) of the leading motion
// word in line, or ok=false when the line has no leading G token. The span
// lets a rewrite replace exactly that token and nothing else.
func MotionTokenSpan(line string) (start, end int, ok bool) {
	idx := motionWordRe.FindStringSubmatchIndex(line)
	if idx == nil {
		return 0, 0, false
	}
	return idx[2], idx[3], true
}
