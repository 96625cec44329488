// Package session ties one program-processing invocation together: it runs
// the rewrite pass, extracts tool metadata, and evaluates the safety checks
// whose outcomes the caller must confirm with the operator. The session never
// blocks on user input itself.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"gcodeopt/internal/clock"
	"gcodeopt/internal/document"
	"gcodeopt/internal/machine"
	"gcodeopt/internal/rewrite"
	"gcodeopt/internal/state"
	"gcodeopt/pkg/gcode"
)

// ConfirmationKind identifies why operator confirmation is needed.
type ConfirmationKind int

const (
	ConfirmZLimit ConfirmationKind = iota
	ConfirmToolChange
)

// Confirmation is one check the caller must resolve before running the job.
type Confirmation struct {
	Kind    ConfirmationKind
	Message string
}

// Report is the outcome of processing one program: either proceed as-is, or
// resolve the listed confirmations first.
type Report struct {
	Rewrite       rewrite.Result
	Tool          *gcode.ToolInfo
	Confirmations []Confirmation
}

// Proceed reports whether the program can run without operator confirmation.
func (r Report) Proceed() bool { return len(r.Confirmations) == 0 }

// Session is the context object for one caller-defined lifetime: it owns the
// engine, the remembered-tool store, and the machine limit provider, instead
// of keeping any of that in process-wide state.
type Session struct {
	engine *rewrite.Engine
	store  ToolStore
	limits machine.Provider
	clk    clock.Clock
	logger *zap.Logger
}

// New builds a session. A nil logger is replaced with a no-op logger.
func New(engine *rewrite.Engine, store ToolStore, limits machine.Provider, clk clock.Clock, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{engine: engine, store: store, limits: limits, clk: clk, logger: logger}
}

// Process runs the rewrite pass over buf, extracts the program's tool
// metadata, and evaluates the Z-limit and tool-change checks. A program with
// no tool comment skips both checks.
func (s *Session) Process(buf document.Buffer) Report {
	rep := Report{Rewrite: s.engine.Run(buf)}

	rep.Tool = gcode.FindToolInfo(buf)
	if rep.Tool == nil {
		return rep
	}

	if rep.Tool.MinZ != nil {
		if limit, ok := s.limits.MinZLimit(); ok {
			depth := s.limits.CurrentZOffset() + *rep.Tool.MinZ
			if depth < limit {
				rep.Confirmations = append(rep.Confirmations, Confirmation{
					Kind: ConfirmZLimit,
					Message: fmt.Sprintf(
						"lowest cut reaches Z%.3f, below the machine limit Z%.3f",
						depth, limit),
				})
			}
		}
	}

	prev, err := s.store.Load()
	if err != nil {
		s.logger.Warn("tool state unavailable, skipping tool-change check", zap.Error(err))
	} else if prev.LastTool != "" && prev.LastTool != rep.Tool.Name {
		rep.Confirmations = append(rep.Confirmations, Confirmation{
			Kind: ConfirmToolChange,
			Message: fmt.Sprintf(
				"tool change: last job used %q, this program wants %q",
				prev.LastTool, rep.Tool.Name),
		})
	}

	return rep
}

// RecordTool remembers name as the machine's current tool. Callers invoke it
// once the operator has decided to proceed; an empty name is a no-op.
func (s *Session) RecordTool(name string) error {
	if name == "" {
		return nil
	}
	return s.store.Save(state.ToolState{LastTool: name, UpdatedAt: s.clk.Now()})
}
