package odvd

import "github.com/cluon-io/cluon/visitor"

// Described is implemented by every message this module can encode or
// decode: it is a Visitable (§4.C) that also knows the MetaMessage
// describing its own shape, so a codec can look up field defaults and
// nested-message types without an external schema lookup.
//
// Statically generated message types return a fixed MetaMessage literal;
// GenericMessage returns whatever MetaMessage it was bound to at runtime
// (SPEC_FULL.md §4.F). Both satisfy this interface identically from a
// codec's point of view.
type Described interface {
	visitor.Visitable
	Meta() MetaMessage
}
