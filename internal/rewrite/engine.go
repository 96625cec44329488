// Package rewrite implements the single-pass G-code rewriting engine: it
// promotes non-cutting repositioning moves to rapid moves and inserts a dwell
// after spindle starts, tracking modal machine state across lines while it
// edits.
package rewrite

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"gcodeopt/internal/document"
	"gcodeopt/pkg/gcode"
)

const (
	// blockStartPrefix opens every operation block the Fusion 360
	// personal-use post emits; it is the only operation boundary the engine
	// recognizes.
	blockStartPrefix = "(When using Fusion 360 for Personal Use"

	// doneTag is spliced in right after the opening paren of the first block
	// marker once a pass has run. Finding it there aborts a second pass.
	doneTag = "OPTIMIZED: "
)

// doneMarkerPrefix is the block-start prefix with the done tag at offset 1.
var doneMarkerPrefix = "(" + doneTag + strings.TrimPrefix(blockStartPrefix, "(")

// Options configure a rewrite pass.
type Options struct {
	// SpindleDelaySec is the dwell inserted after each spindle start, in
	// whole seconds. Zero disables the insertion.
	SpindleDelaySec int
}

// Result reports what a pass did to the program buffer.
type Result struct {
	Changed  bool
	Promoted int // motion tokens rewritten to rapid
	Inserted int // dwell and feed-restore lines added
	Note     string
}

// Engine rewrites one program buffer at a time. The engine itself carries no
// state between passes; everything modal lives in passState.
type Engine struct {
	opts   Options
	logger *zap.Logger
}

// New builds an engine. A nil logger is replaced with a no-op logger.
func New(opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{opts: opts, logger: logger}
}

// passState is the modal state tracked across lines of one pass. Fields are
// sticky: a value absent on the current line keeps its last known value,
// mirroring modal G-code semantics.
type passState struct {
	motionMode  *int
	currentZ    *float64
	currentFeed *float64
	// feedZ is the retract height: the Z of the first downward cutting move
	// in the current operation. Travel at or above it is in-air.
	feedZ              *float64
	pendingFeedRestore bool
}

// Run executes one rewrite pass over buf. It is idempotent: a program whose
// first operation marker already carries the done tag comes back untouched,
// and a program with no operation marker at all is left alone.
func (e *Engine) Run(buf document.Buffer) Result {
	if firstMarker(buf) != markerFresh {
		return Result{}
	}

	var (
		st  passState
		res Result
	)
	marked := false
	for i := 0; i < buf.LineCount(); i++ {
		line := buf.Line(i)

		if strings.HasPrefix(line, blockStartPrefix) {
			if !marked {
				buf.ReplaceRange(i, 1, i, 1, doneTag)
				marked = true
				res.Changed = true
			}
			// Z heights never carry across operations.
			st.feedZ = nil
			continue
		}

		info := gcode.ParseLine(line)
		if info.IsComment {
			continue
		}

		if info.HasSpindleStart {
			// No motion/feed extraction on a spindle-start line.
			if e.opts.SpindleDelaySec > 0 {
				buf.InsertLines(i+1, []string{dwell(e.opts.SpindleDelaySec)})
				res.Changed = true
				res.Inserted++
				i++ // skip the dwell we just inserted
			}
			continue
		}

		lastZ := st.currentZ
		if info.MotionMode != nil {
			st.motionMode = info.MotionMode
		}
		if info.Z != nil {
			st.currentZ = info.Z
		}
		if info.Feed != nil {
			st.currentFeed = info.Feed
		}

		switch {
		case st.startsPlunge(lastZ):
			st.feedZ = st.currentZ
		case st.travelsInAir(lastZ):
			promote(buf, i)
			st.pendingFeedRestore = true
			res.Changed = true
			res.Promoted++
		case st.pendingFeedRestore:
			buf.InsertLines(i, []string{feedRestore(st.currentFeed)})
			st.pendingFeedRestore = false
			res.Changed = true
			res.Inserted++
			i++ // the current line moved down by one and needs no edit
		}
	}

	if res.Promoted > 0 {
		res.Note = fmt.Sprintf("promoted %d repositioning move(s) to rapid", res.Promoted)
		e.logger.Info("rewrite pass complete",
			zap.Int("promoted", res.Promoted),
			zap.Int("inserted", res.Inserted))
	}
	return res
}

// startsPlunge reports whether the current line is the first downward cutting
// move of the operation, which establishes the retract height.
func (st *passState) startsPlunge(lastZ *float64) bool {
	return st.motionMode != nil && *st.motionMode == gcode.MotionLinear &&
		st.feedZ == nil && st.currentZ != nil &&
		*st.currentZ < zOrOrigin(lastZ)
}

// travelsInAir reports whether the current cutting move stays at or above the
// retract height while climbing, i.e. is non-cutting travel safe to promote.
// A move exactly at the previous height does not promote: only the climb out
// of the cut and anything above it count as in-air.
func (st *passState) travelsInAir(lastZ *float64) bool {
	return st.motionMode != nil && *st.motionMode == gcode.MotionLinear &&
		st.feedZ != nil && st.currentZ != nil &&
		*st.currentZ >= *st.feedZ && *st.currentZ > zOrOrigin(lastZ)
}

// zOrOrigin treats a never-seen Z as the machine origin. The first plunge of
// a fresh program carries no prior Z word; without this it could never
// establish the retract height.
func zOrOrigin(z *float64) float64 {
	if z == nil {
		return 0
	}
	return *z
}

// promote rewrites line i's leading motion token to the rapid word, or
// prefixes the line with it when no motion token is present.
func promote(buf document.Buffer, i int) {
	line := buf.Line(i)
	if start, end, ok := gcode.MotionTokenSpan(line); ok {
		buf.ReplaceRange(i, start, i, end, gcode.RapidWord)
		return
	}
	buf.ReplaceRange(i, 0, i, 0, gcode.RapidWord+" ")
}

// dwell returns the timed-pause command inserted after a spindle start.
func dwell(seconds int) string {
	return fmt.Sprintf("G4 P%d", seconds)
}

// feedRestore returns the command restoring the cutting feed after a
// promoted-rapid sequence. With no feed seen yet it restores only the
// cutting mode rather than inventing a feed number.
func feedRestore(feed *float64) string {
	if feed == nil {
		return "G1"
	}
	return "G1 F" + strconv.FormatFloat(*feed, 'f', -1, 64)
}

type markerKind int

const (
	markerNone markerKind = iota
	markerFresh
	markerDone
)

// firstMarker scans for the first operation marker in the program. A done
// tag at the position the engine would first look means a previous pass
// already processed this program.
func firstMarker(buf document.Buffer) markerKind {
	for i := 0; i < buf.LineCount(); i++ {
		line := buf.Line(i)
		if strings.HasPrefix(line, doneMarkerPrefix) {
			return markerDone
		}
		if strings.HasPrefix(line, blockStartPrefix) {
			return markerFresh
		}
	}
	return markerNone
}
