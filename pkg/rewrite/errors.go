// Package rewrite implements the function-call transformation pass: it
// inlines eligible library functions (and their paired gradients) into
// the host graph and brackets every call site with Call and Return
// frame markers so a downstream executor can run recursive functions.
package rewrite

import (
	"errors"

	"github.com/l3aro/go-frame-rewrite/pkg/library"
)

// ErrInvalidArgument marks recoverable input problems: unresolvable
// argument types, functions missing from the library at inlining time,
// gradient call sites without a gradient companion, and ambiguous
// gradient pairings.
var ErrInvalidArgument = library.ErrInvalidArgument

// ErrInternal marks invariant violations that abort the pass: arity
// mismatches between a call node and its function signature, forward
// and gradient signatures that disagree, and illegal sink fan-in.
var ErrInternal = errors.New("internal invariant violation")

// IsInvalidArgument reports whether err is classified as an input error.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsInternal reports whether err is an invariant violation.
func IsInternal(err error) bool { return errors.Is(err, ErrInternal) }
