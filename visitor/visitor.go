// Package visitor defines the uniform traversal contract through which
// every message — statically generated or a runtime-bound GenericMessage —
// exposes its fields to encoders and decoders, per SPEC_FULL.md §4.C.
//
// A Visitor is a capability set: PreVisit/PostVisit bracket a full
// traversal, and one VisitXxx method exists per primitive type tag plus
// VisitMessage for nested messages. Every VisitXxx method receives a
// pointer to the field's storage, so the same traversal serves both
// encoders (which read through the pointer) and decoders (which write
// through it).
package visitor

// Visitable is implemented by every message type this module works with:
// statically generated structs and GenericMessage alike.
type Visitable interface {
	// Accept drives a full traversal: PreVisit, one VisitXxx call per field
	// in schema declaration order, then PostVisit.
	Accept(v Visitor)

	// AcceptTarget drives a targeted traversal: exactly one VisitXxx call,
	// for the field with the given id, with no PreVisit/PostVisit calls. It
	// is a no-op if no field has that id.
	AcceptTarget(v Visitor, fieldID uint32)
}

// Visitor is the capability set a traversal is driven against. Nested
// message fields are not reported through a generic "visit value" callback;
// VisitMessage hands the visitor the nested Visitable so the visitor can
// recurse through its own Accept, keeping every visitor's per-kind logic in
// one place.
type Visitor interface {
	PreVisit(id uint32, shortName, longName string)
	PostVisit()

	VisitBool(id uint32, name string, v *bool)
	VisitChar(id uint32, name string, v *byte)
	VisitUint8(id uint32, name string, v *uint8)
	VisitInt8(id uint32, name string, v *int8)
	VisitUint16(id uint32, name string, v *uint16)
	VisitInt16(id uint32, name string, v *int16)
	VisitUint32(id uint32, name string, v *uint32)
	VisitInt32(id uint32, name string, v *int32)
	VisitUint64(id uint32, name string, v *uint64)
	VisitInt64(id uint32, name string, v *int64)
	VisitFloat(id uint32, name string, v *float32)
	VisitDouble(id uint32, name string, v *float64)
	VisitString(id uint32, name string, v *string)
	VisitBytes(id uint32, name string, v *[]byte)
	VisitMessage(id uint32, name string, v Visitable)
}

// NopVisitor implements every Visitor method as a no-op. Embedding it lets a
// visitor that only cares about a handful of kinds (e.g. a visitor that
// only reads bytes fields) avoid declaring the rest.
type NopVisitor struct{}

func (NopVisitor) PreVisit(uint32, string, string)           {}
func (NopVisitor) PostVisit()                                {}
func (NopVisitor) VisitBool(uint32, string, *bool)            {}
func (NopVisitor) VisitChar(uint32, string, *byte)            {}
func (NopVisitor) VisitUint8(uint32, string, *uint8)          {}
func (NopVisitor) VisitInt8(uint32, string, *int8)            {}
func (NopVisitor) VisitUint16(uint32, string, *uint16)        {}
func (NopVisitor) VisitInt16(uint32, string, *int16)          {}
func (NopVisitor) VisitUint32(uint32, string, *uint32)        {}
func (NopVisitor) VisitInt32(uint32, string, *int32)          {}
func (NopVisitor) VisitUint64(uint32, string, *uint64)        {}
func (NopVisitor) VisitInt64(uint32, string, *int64)          {}
func (NopVisitor) VisitFloat(uint32, string, *float32)        {}
func (NopVisitor) VisitDouble(uint32, string, *float64)       {}
func (NopVisitor) VisitString(uint32, string, *string)        {}
func (NopVisitor) VisitBytes(uint32, string, *[]byte)         {}
func (NopVisitor) VisitMessage(uint32, string, Visitable)     {}
