package expression

import (
	"fmt"

	"github.com/ryogrid/SamehadaExpr/errors"
)

const (
	ErrMalformedExpression    = errors.Error("malformed serialized expression")
	ErrBloomFilterNotAttached = errors.Error("bloom filter is not attached to the predicate")
	ErrInvalidCaseExpression  = errors.Error("invalid case expression")
	ErrUnknownRelation        = errors.Error("unknown relation or attribute")
)

/**
 * TypeMismatchError is returned when a comparison or operation can not be
 * applied to types of its operands. the operands are handed back to the caller.
 */
type TypeMismatchError struct {
	Err   error
	Left  Scalar
	Right Scalar // nil for unary operation
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %v", e.Err)
}

func (e *TypeMismatchError) Unwrap() error {
	return e.Err
}
