// Package genericmessage implements component F of SPEC_FULL.md: a
// runtime-bound message carrier that satisfies odvd.Described exactly like
// a statically generated type, so payloads whose schema is only known at
// runtime (via a parsed .odvd corpus) can still be encoded, decoded, and
// transcoded through this module's visitor-driven codecs.
//
// Per the design note in SPEC_FULL.md §9, the templated visitor overloading
// a generated type gets for free is replaced here by a tagged value variant
// enumerating the primitive-type tag set of §3: one storage slot per
// primitive kind plus an owned nested GenericMessage for message-typed
// fields.
package genericmessage

import (
	"github.com/cluon-io/cluon/odvd"
	"github.com/cluon-io/cluon/visitor"
)

// GenericMessage is bound to a MetaMessage (optionally resolving nested
// message fields against a Corpus) and exposes the same Accept/AcceptTarget
// contract a generated type would.
type GenericMessage struct {
	meta   odvd.MetaMessage
	corpus *odvd.Corpus
	values map[uint32]*fieldValue
}

// fieldValue holds exactly one of the primitive tag set of §3, or an owned
// nested GenericMessage when the field is message-typed. Exactly one member
// is meaningful for a given field, selected by its MetaField.Type.
type fieldValue struct {
	b   bool
	u8  uint8
	i8  int8
	u16 uint16
	i16 int16
	u32 uint32
	i32 int32
	u64 uint64
	i64 int64
	f32 float32
	f64 float64
	s   string
	by  []byte
	msg *GenericMessage
}

// New binds a GenericMessage to meta. corpus may be nil; nested
// message-typed fields are then left unresolved, and Accept/AcceptTarget
// skip them (New never fails — per §4.J's "construction never fails
// fatally" spirit applied here to schema binding).
func New(meta odvd.MetaMessage, corpus *odvd.Corpus) *GenericMessage {
	g := &GenericMessage{meta: meta, corpus: corpus, values: make(map[uint32]*fieldValue, len(meta.Fields))}
	for _, f := range meta.Fields {
		g.values[f.ID] = newFieldValue(f, corpus)
	}
	return g
}

func newFieldValue(f odvd.MetaField, corpus *odvd.Corpus) *fieldValue {
	fv := &fieldValue{}
	if f.Type != odvd.Message {
		setZeroValue(fv, f)
		return fv
	}
	if corpus == nil {
		return fv
	}
	nestedMeta, ok := corpus.ByLongName(f.MessageTypeName)
	if !ok {
		return fv
	}
	fv.msg = New(*nestedMeta, corpus)
	return fv
}

func setZeroValue(fv *fieldValue, f odvd.MetaField) {
	switch z := f.ZeroValue().(type) {
	case bool:
		fv.b = z
	case byte: // also uint8
		fv.u8 = z
	case int8:
		fv.i8 = z
	case uint16:
		fv.u16 = z
	case int16:
		fv.i16 = z
	case uint32:
		fv.u32 = z
	case int32:
		fv.i32 = z
	case uint64:
		fv.u64 = z
	case int64:
		fv.i64 = z
	case float32:
		fv.f32 = z
	case float64:
		fv.f64 = z
	case string:
		fv.s = z
	case []byte:
		fv.by = z
	}
}

// Meta returns the MetaMessage this value is bound to.
func (g *GenericMessage) Meta() odvd.MetaMessage { return g.meta }

// Corpus returns the corpus nested message fields are resolved against, or
// nil if none was supplied.
func (g *GenericMessage) Corpus() *odvd.Corpus { return g.corpus }

// Value returns the current value of field id as an any, or nil if the
// field is unknown. Message-typed fields return *GenericMessage.
func (g *GenericMessage) Value(id uint32) any {
	f, ok := g.meta.FieldByID(id)
	if !ok {
		return nil
	}
	fv := g.values[id]
	if fv == nil {
		return nil
	}
	switch f.Type {
	case odvd.Bool:
		return fv.b
	case odvd.Char, odvd.Uint8:
		return fv.u8
	case odvd.Int8:
		return fv.i8
	case odvd.Uint16:
		return fv.u16
	case odvd.Int16:
		return fv.i16
	case odvd.Uint32:
		return fv.u32
	case odvd.Int32:
		return fv.i32
	case odvd.Uint64:
		return fv.u64
	case odvd.Int64:
		return fv.i64
	case odvd.Float:
		return fv.f32
	case odvd.Double:
		return fv.f64
	case odvd.String:
		return fv.s
	case odvd.Bytes:
		return fv.by
	case odvd.Message:
		if fv.msg == nil {
			return nil
		}
		return fv.msg
	default:
		return nil
	}
}

// Accept drives a full traversal in schema declaration order, per
// visitor.Visitable.
func (g *GenericMessage) Accept(v visitor.Visitor) {
	v.PreVisit(g.meta.ID, g.meta.ShortName(), g.meta.LongName)
	for _, f := range g.meta.Fields {
		g.visitField(v, f)
	}
	v.PostVisit()
}

// AcceptTarget drives a single targeted visit of fieldID, per
// visitor.Visitable.
func (g *GenericMessage) AcceptTarget(v visitor.Visitor, fieldID uint32) {
	f, ok := g.meta.FieldByID(fieldID)
	if !ok {
		return
	}
	g.visitField(v, f)
}

func (g *GenericMessage) visitField(v visitor.Visitor, f odvd.MetaField) {
	fv := g.values[f.ID]
	if fv == nil {
		return
	}
	switch f.Type {
	case odvd.Bool:
		v.VisitBool(f.ID, f.Name, &fv.b)
	case odvd.Char:
		v.VisitChar(f.ID, f.Name, &fv.u8)
	case odvd.Uint8:
		v.VisitUint8(f.ID, f.Name, &fv.u8)
	case odvd.Int8:
		v.VisitInt8(f.ID, f.Name, &fv.i8)
	case odvd.Uint16:
		v.VisitUint16(f.ID, f.Name, &fv.u16)
	case odvd.Int16:
		v.VisitInt16(f.ID, f.Name, &fv.i16)
	case odvd.Uint32:
		v.VisitUint32(f.ID, f.Name, &fv.u32)
	case odvd.Int32:
		v.VisitInt32(f.ID, f.Name, &fv.i32)
	case odvd.Uint64:
		v.VisitUint64(f.ID, f.Name, &fv.u64)
	case odvd.Int64:
		v.VisitInt64(f.ID, f.Name, &fv.i64)
	case odvd.Float:
		v.VisitFloat(f.ID, f.Name, &fv.f32)
	case odvd.Double:
		v.VisitDouble(f.ID, f.Name, &fv.f64)
	case odvd.String:
		v.VisitString(f.ID, f.Name, &fv.s)
	case odvd.Bytes:
		v.VisitBytes(f.ID, f.Name, &fv.by)
	case odvd.Message:
		if fv.msg == nil {
			if g.corpus == nil {
				return
			}
			nestedMeta, ok := g.corpus.ByLongName(f.MessageTypeName)
			if !ok {
				return
			}
			fv.msg = New(*nestedMeta, g.corpus)
		}
		v.VisitMessage(f.ID, f.Name, fv.msg)
	}
}
