package scoregraph

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by the engine wraps exactly one.
var (
	ErrDuplicateNode  = errors.New("node already exists")
	ErrNodeNotFound   = errors.New("node not found")
	ErrEdgeNotFound   = errors.New("edge not found")
	ErrCycle          = errors.New("edge would close a cycle")
	ErrSelfLoop       = errors.New("self-loop edges are not allowed")
	ErrInvalidOptions = errors.New("invalid options")
	ErrInvalidValue   = errors.New("base value must be a finite number")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op     string // Operation that failed (e.g., "add_edge")
	Entity string // "node", "edge" or "options"
	ID     NodeID
	PeerID NodeID // Second endpoint for edge errors
	// Path is the existing route between the endpoints of a rejected edge.
	Path   []NodeID
	Detail string
	Cause  error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	switch {
	case e.Entity == "edge" && len(e.Path) > 0:
		return fmt.Sprintf("%s edge %d-%d (existing path %v): %v", e.Op, e.ID, e.PeerID, e.Path, e.Cause)
	case e.Entity == "edge":
		return fmt.Sprintf("%s edge %d-%d: %v", e.Op, e.ID, e.PeerID, e.Cause)
	case e.Entity == "node":
		return fmt.Sprintf("%s node %d: %v", e.Op, e.ID, e.Cause)
	case e.Detail != "":
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Entity, e.Detail, e.Cause)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// ErrorBuilder provides a fluent interface for building GraphErrors.
type ErrorBuilder struct {
	err GraphError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: GraphError{Op: op}}
}

// Node sets the entity to "node" with the given ID.
func (b *ErrorBuilder) Node(id NodeID) *ErrorBuilder {
	b.err.Entity = "node"
	b.err.ID = id
	return b
}

// Edge sets the entity to "edge" with both endpoints.
func (b *ErrorBuilder) Edge(a, c NodeID) *ErrorBuilder {
	b.err.Entity = "edge"
	b.err.ID = a
	b.err.PeerID = c
	return b
}

// Options sets the entity to "options" with a detail describing the field.
func (b *ErrorBuilder) Options(detail string) *ErrorBuilder {
	b.err.Entity = "options"
	b.err.Detail = detail
	return b
}

// Path records the route that already connects the endpoints of an edge.
func (b *ErrorBuilder) Path(path []NodeID) *ErrorBuilder {
	b.err.Path = path
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	e := b.err
	return &e
}

func nodeNotFound(op string, id NodeID) error {
	return NewError(op).Node(id).Cause(ErrNodeNotFound).Err()
}

// IsNotFound reports whether err is a missing node or edge.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound) || errors.Is(err, ErrEdgeNotFound)
}

// IsCycle reports whether err is a rejected cycle-closing edge.
func IsCycle(err error) bool {
	return errors.Is(err, ErrCycle)
}
