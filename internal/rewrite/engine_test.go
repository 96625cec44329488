package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gcodeopt/internal/document"
)

const marker = "(When using Fusion 360 for Personal Use, the feedrate of rapid moves is reduced)"
const markedLine = "(OPTIMIZED: When using Fusion 360 for Personal Use, the feedrate of rapid moves is reduced)"

func runPass(t *testing.T, opts Options, lines []string) (*document.MemoryBuffer, Result) {
	t.Helper()
	buf := document.NewMemoryBuffer(lines)
	res := New(opts, nil).Run(buf)
	return buf, res
}

func TestRun_PromotesTravelAboveRetractHeight(t *testing.T) {
	buf, res := runPass(t, Options{}, []string{
		marker,
		"G1 Z-5 F100",
		"G1 Z-5 X10",
		"G1 Z0 X20",
		"G1 Z-5 X5",
	})

	assert.True(t, res.Changed)
	assert.Equal(t, 1, res.Promoted)
	assert.Equal(t, 1, res.Inserted)
	assert.NotEmpty(t, res.Note)
	assert.Equal(t, []string{
		markedLine,
		"G1 Z-5 F100",
		"G1 Z-5 X10", // at the retract height, not above the previous Z
		"G0 Z0 X20",
		"G1 F100", // feed restored before the first non-promoted line
		"G1 Z-5 X5",
	}, buf.Lines())
}

func TestRun_Idempotent(t *testing.T) {
	lines := []string{
		marker,
		"M3 S12000",
		"G1 Z-5 F100",
		"G1 Z0",
	}
	buf := document.NewMemoryBuffer(lines)
	engine := New(Options{SpindleDelaySec: 3}, nil)

	first := engine.Run(buf)
	require.True(t, first.Changed)
	after := buf.Lines()

	second := engine.Run(buf)
	assert.False(t, second.Changed)
	assert.Zero(t, second.Promoted)
	assert.Zero(t, second.Inserted)
	assert.Equal(t, after, buf.Lines())
}

func TestRun_NoMarkerIsNoOp(t *testing.T) {
	lines := []string{
		"(Header)",
		"M3 S12000",
		"G1 Z-5 F100",
		"G1 Z0",
	}
	buf, res := runPass(t, Options{SpindleDelaySec: 3}, lines)

	assert.False(t, res.Changed)
	assert.Equal(t, lines, buf.Lines())
}

func TestRun_SpindleDelay(t *testing.T) {
	t.Run("delay inserts dwell after M3", func(t *testing.T) {
		buf, res := runPass(t, Options{SpindleDelaySec: 3}, []string{
			marker,
			"M3 S12000",
			"G1 Z-5 F100",
		})

		require.True(t, res.Changed)
		assert.Equal(t, 1, res.Inserted)
		assert.Equal(t, []string{
			markedLine,
			"M3 S12000",
			"G4 P3",
			"G1 Z-5 F100",
		}, buf.Lines())
	})

	t.Run("zero delay inserts nothing", func(t *testing.T) {
		buf, _ := runPass(t, Options{SpindleDelaySec: 0}, []string{
			marker,
			"M3 S12000",
		})
		assert.Equal(t, []string{markedLine, "M3 S12000"}, buf.Lines())
	})

	t.Run("M30 does not trigger a dwell", func(t *testing.T) {
		buf, _ := runPass(t, Options{SpindleDelaySec: 3}, []string{
			marker,
			"M30",
		})
		assert.Equal(t, []string{markedLine, "M30"}, buf.Lines())
	})

	t.Run("spindle line Z is not extracted", func(t *testing.T) {
		// The S12000 word must not leak into state, and neither may any
		// word on the spindle-start line.
		buf, _ := runPass(t, Options{SpindleDelaySec: 1}, []string{
			marker,
			"M3 S12000",
			"G1 Z-5 F100",
			"G1 Z0",
		})
		assert.Equal(t, []string{
			markedLine,
			"M3 S12000",
			"G4 P1",
			"G1 Z-5 F100",
			"G0 Z0",
		}, buf.Lines())
	})
}

func TestRun_RetractHeightResetsPerOperation(t *testing.T) {
	buf, res := runPass(t, Options{}, []string{
		marker,
		"G1 Z-5 F100",
		"G1 Z0",
		"G1 Z-5 X1",
		marker,
		"G1 Z-3 F80",
		"G1 Z-3 X10",
	})

	// Had the retract height survived the second marker, "G1 Z-3 F80" would
	// sit above it and be promoted; with the reset it is a fresh plunge.
	assert.Equal(t, 1, res.Promoted)
	assert.Equal(t, []string{
		markedLine,
		"G1 Z-5 F100",
		"G0 Z0",
		"G1 F100",
		"G1 Z-5 X1",
		marker, // only the first marker line gets the done tag
		"G1 Z-3 F80",
		"G1 Z-3 X10",
	}, buf.Lines())
}

func TestRun_PromotionPrefixesLineWithoutMotionToken(t *testing.T) {
	buf, _ := runPass(t, Options{}, []string{
		marker,
		"G1 Z-5 F100",
		"G1 Z0 X20",
		"X30 Z2",
	})

	// "X30 Z2" inherits the sticky G1 mode and climbs further, so it is
	// promoted by prefixing since it has no motion token of its own.
	assert.Equal(t, []string{
		markedLine,
		"G1 Z-5 F100",
		"G0 Z0 X20",
		"G0 X30 Z2",
	}, buf.Lines())
}

func TestRun_FeedRestoreWithoutKnownFeed(t *testing.T) {
	buf, _ := runPass(t, Options{}, []string{
		marker,
		"G1 Z-5",
		"G1 Z0",
		"G1 Z-5 X1",
	})

	assert.Equal(t, []string{
		markedLine,
		"G1 Z-5",
		"G0 Z0",
		"G1", // no feed rate ever seen, restore the cutting mode only
		"G1 Z-5 X1",
	}, buf.Lines())
}

func TestRun_ConsecutivePromotions(t *testing.T) {
	buf, res := runPass(t, Options{}, []string{
		marker,
		"G1 Z-5 F100",
		"G1 Z0",
		"G1 Z5",
		"G1 Z-5 X2",
	})

	assert.Equal(t, 2, res.Promoted)
	assert.Equal(t, []string{
		markedLine,
		"G1 Z-5 F100",
		"G0 Z0",
		"G0 Z5",
		"G1 F100",
		"G1 Z-5 X2",
	}, buf.Lines())
}

func TestRun_LineCountConservation(t *testing.T) {
	lines := []string{
		marker,
		"M3 S12000",
		"G1 Z-5 F100",
		"G1 Z0",
		"G1 Z-5 X1",
	}
	buf := document.NewMemoryBuffer(lines)
	res := New(Options{SpindleDelaySec: 2}, nil).Run(buf)

	// One dwell plus one feed restore.
	require.Equal(t, 2, res.Inserted)
	assert.Equal(t, len(lines)+res.Inserted, buf.LineCount())
}

func TestRun_MarkerOnly(t *testing.T) {
	buf, res := runPass(t, Options{}, []string{marker})

	assert.True(t, res.Changed)
	assert.Zero(t, res.Promoted)
	assert.Equal(t, []string{markedLine}, buf.Lines())
}
