// Package callbacks implements the three-kind handler registry that
// mediates concrete reads and AST rewriting: GET_CONCRETE_MEMORY_VALUE,
// GET_CONCRETE_REGISTER_VALUE, and SYMBOLIC_SIMPLIFICATION. Modeled as a
// tagged variant of handler shapes keyed by kind, stored in per-kind
// ordered slices, avoiding any virtual-dispatch/interface-inheritance
// scheme.
package callbacks

import (
	"fmt"

	"github.com/borzacchiello/symex/ast"
)

type Kind int

const (
	GetConcreteMemoryValue Kind = iota
	GetConcreteRegisterValue
	SymbolicSimplification
)

// MemoryAccess is the payload for GET_CONCRETE_MEMORY_VALUE callbacks.
type MemoryAccess struct {
	Address uint64
	Size    uint
}

// Register is the payload for GET_CONCRETE_REGISTER_VALUE callbacks.
type Register struct {
	ID   uint32
	Name string
}

// MemoryReadHandler may populate concrete memory in response to a read
// miss; it has no return value, matching the side-effect-only contract.
type MemoryReadHandler func(MemoryAccess)

// RegisterReadHandler may populate a concrete register in response to a
// read miss.
type RegisterReadHandler func(Register)

// SimplificationHandler rewrites an AST node, returning a possibly-new
// node that becomes the input to the next handler in the chain.
type SimplificationHandler func(ast.AbstractNode) ast.AbstractNode

type handlerID uint64

type registry struct {
	memHandlers    []namedHandler[MemoryReadHandler]
	regHandlers    []namedHandler[RegisterReadHandler]
	simplHandlers  []namedHandler[SimplificationHandler]
	nextHandlerID  handlerID
}

type namedHandler[T any] struct {
	id handlerID
	fn T
}

// HandlerRef identifies a previously added handler so it can be removed by
// identity, regardless of kind.
type HandlerRef struct {
	kind Kind
	id   handlerID
}

// Registry is the callbacks dispatcher. Its zero value is an empty,
// usable registry; NewRegistry returns one.
type Registry struct {
	reg registry
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) AddMemoryReadCallback(h MemoryReadHandler) HandlerRef {
	id := r.reg.nextHandlerID
	r.reg.nextHandlerID++
	r.reg.memHandlers = append(r.reg.memHandlers, namedHandler[MemoryReadHandler]{id, h})
	return HandlerRef{GetConcreteMemoryValue, id}
}

func (r *Registry) AddRegisterReadCallback(h RegisterReadHandler) HandlerRef {
	id := r.reg.nextHandlerID
	r.reg.nextHandlerID++
	r.reg.regHandlers = append(r.reg.regHandlers, namedHandler[RegisterReadHandler]{id, h})
	return HandlerRef{GetConcreteRegisterValue, id}
}

func (r *Registry) AddSimplificationCallback(h SimplificationHandler) HandlerRef {
	id := r.reg.nextHandlerID
	r.reg.nextHandlerID++
	r.reg.simplHandlers = append(r.reg.simplHandlers, namedHandler[SimplificationHandler]{id, h})
	return HandlerRef{SymbolicSimplification, id}
}

// RemoveCallback removes the handler identified by ref, matching by
// identity.
func (r *Registry) RemoveCallback(ref HandlerRef) {
	switch ref.kind {
	case GetConcreteMemoryValue:
		r.reg.memHandlers = removeByID(r.reg.memHandlers, ref.id)
	case GetConcreteRegisterValue:
		r.reg.regHandlers = removeByID(r.reg.regHandlers, ref.id)
	case SymbolicSimplification:
		r.reg.simplHandlers = removeByID(r.reg.simplHandlers, ref.id)
	}
}

func removeByID[T any](handlers []namedHandler[T], id handlerID) []namedHandler[T] {
	out := handlers[:0]
	for _, h := range handlers {
		if h.id != id {
			out = append(out, h)
		}
	}
	return out
}

func (r *Registry) RemoveAllCallbacks() {
	r.reg = registry{}
}

// ProcessMemoryRead notifies every GET_CONCRETE_MEMORY_VALUE handler, in
// insertion order. A handler panic is recovered and surfaced as a callback
// error; subsequent handlers in this invocation are skipped.
func (r *Registry) ProcessMemoryRead(access MemoryAccess) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: memory read callback panicked: %v", ErrCallbackFailure, p)
		}
	}()
	for _, h := range r.reg.memHandlers {
		h.fn(access)
	}
	return nil
}

// ProcessRegisterRead notifies every GET_CONCRETE_REGISTER_VALUE handler,
// in insertion order.
func (r *Registry) ProcessRegisterRead(reg Register) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: register read callback panicked: %v", ErrCallbackFailure, p)
		}
	}()
	for _, h := range r.reg.regHandlers {
		h.fn(reg)
	}
	return nil
}

// ProcessSimplification runs the SYMBOLIC_SIMPLIFICATION chain
// left-to-right: each handler's output feeds the next handler's input.
func (r *Registry) ProcessSimplification(node ast.AbstractNode) (result ast.AbstractNode, err error) {
	result = node
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: simplification callback panicked: %v", ErrCallbackFailure, p)
		}
	}()
	for _, h := range r.reg.simplHandlers {
		result = h.fn(result)
	}
	return result, nil
}
