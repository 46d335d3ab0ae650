package bind

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBoundAttributeMissing is returned when an indirect key (@name) names
	// an attribute the element does not carry.
	ErrBoundAttributeMissing = errors.New("bind: bound attribute does not exist")
	// ErrBindPropertyMissing is returned for a data-bind attribute without a
	// :property suffix.
	ErrBindPropertyMissing = errors.New("bind: data-bind attribute has no property")
	// ErrBoundDataNotSet is returned by validation when required directives
	// were never satisfied.
	ErrBoundDataNotSet = errors.New("bind: bound data not set")
	// ErrIncorrectListData is returned when list data cannot be iterated.
	ErrIncorrectListData = errors.New("bind: list data is not iterable")
)

// BoundAttributeError reports the directive whose indirect key could not be
// resolved.
type BoundAttributeError struct {
	Directive string
	Attribute string
}

func (e *BoundAttributeError) Error() string {
	return fmt.Sprintf("bind: %s refers to missing attribute %q", e.Directive, e.Attribute)
}

func (e *BoundAttributeError) Unwrap() error {
	return ErrBoundAttributeMissing
}

// UnboundError lists the directives that validation found unsatisfied.
type UnboundError struct {
	Directives []string
}

func (e *UnboundError) Error() string {
	return fmt.Sprintf("bind: bound data not set for %d directive(s): %s", len(e.Directives), strings.Join(e.Directives, "; "))
}

func (e *UnboundError) Unwrap() error {
	return ErrBoundDataNotSet
}
