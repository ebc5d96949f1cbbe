package symex

import (
	"errors"
	"fmt"

	"github.com/borzacchiello/symex/arch"
	"github.com/borzacchiello/symex/ast"
	"github.com/borzacchiello/symex/callbacks"
	"github.com/borzacchiello/symex/symbolic"
	"github.com/borzacchiello/symex/taint"
)

// Re-exported per-package error sentinels, gathered here under the names
// used throughout this specification so callers need only import this
// package to errors.Is against any of them.
var (
	ErrArchitectureNotInitialised   = arch.ErrArchitectureNotInitialised
	ErrUnsupportedArchitecture      = arch.ErrUnsupportedArchitecture
	ErrInvalidRegister              = arch.ErrInvalidRegister
	ErrInvalidMemoryRange           = arch.ErrInvalidMemoryRange
	ErrAstTypingError               = ast.ErrAstTypingError
	ErrAstNotFound                  = ast.ErrAstNotFound
	ErrSymbolicEngineNotInitialised = symbolic.ErrSymbolicEngineNotInitialised
	ErrUnknownSymbolicExpressionId  = symbolic.ErrUnknownSymbolicExpressionId
	ErrUnknownSymbolicVariable      = symbolic.ErrUnknownSymbolicVariable
	ErrSimplificationFailure        = symbolic.ErrSimplificationFailure
	ErrCallbackFailure              = callbacks.ErrCallbackFailure
	ErrTaintEngineNotInitialised    = taint.ErrTaintEngineNotInitialised

	// ErrSolverFailure surfaces a backend solver error (RESULT_ERROR) at
	// the façade boundary; the ast package itself reports this as a plain
	// result code, not an error, matching gosmt's own solver API.
	ErrSolverFailure = errors.New("solver failure")

	// ErrNotInitialised surfaces a façade-level operation attempted before
	// Init or after Remove.
	ErrNotInitialised = errors.New("façade not initialised")
)

func (f *Facade) checkInitialised() error {
	if f.state != Initialised {
		return fmt.Errorf("%w (state=%v)", ErrNotInitialised, f.state)
	}
	return nil
}
