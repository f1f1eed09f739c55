package dynamo

import (
	"errors"
	"fmt"
)

// Precondition errors for building and stepping chains.
var (
	// ErrBranchingChain indicates a hierarchy node with more than one child.
	ErrBranchingChain = errors.New("dynamo: chain hierarchy branches (only linear chains are supported)")

	// ErrAlreadyBaked indicates a chain whose nodes already carry solver state.
	ErrAlreadyBaked = errors.New("dynamo: chain already baked")

	// ErrMissingPredecessor indicates a constraint whose predecessor has no position.
	ErrMissingPredecessor = errors.New("dynamo: constraint predecessor missing")

	// ErrNotAuthored indicates a root that was never marked as a chain.
	ErrNotAuthored = errors.New("dynamo: entity is not an authored chain root")

	// ErrDampingBounds indicates a friction value outside [0, 1].
	ErrDampingBounds = errors.New("dynamo: damping factor out of [0, 1]")

	// ErrUnknownEntity indicates an entity the host world does not know.
	ErrUnknownEntity = errors.New("dynamo: unknown entity")

	// ErrInvalidState indicates a non-finite coordinate.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// ChainError wraps an error with the chain and entity it concerns.
type ChainError struct {
	Root    Entity
	Entity  Entity
	Wrapped error
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("chain %d, entity %d: %v", e.Root, e.Entity, e.Wrapped)
}

func (e *ChainError) Unwrap() error {
	return e.Wrapped
}
