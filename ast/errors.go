package ast

import "errors"

var (
	// ErrAstTypingError surfaces a node constructed or consumed with a
	// bit-size or kind mismatch against the operator's typing rule.
	ErrAstTypingError = errors.New("ast typing error")
	// ErrAstNotFound surfaces a lookup (by name, by id) against the AST
	// dictionary or variable registry that found nothing.
	ErrAstNotFound = errors.New("ast node not found")
)
