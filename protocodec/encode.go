// Package protocodec implements component D of SPEC_FULL.md: a
// Protobuf-compatible (proto2 semantics) binary wire encoder/decoder driven
// entirely through the visitor framework, so the same code serves
// statically generated messages and GenericMessage alike.
package protocodec

import (
	"sort"

	"github.com/cluon-io/cluon/odvd"
	"github.com/cluon-io/cluon/visitor"
	"github.com/cluon-io/cluon/wire"
)

// Encode serializes m to the Protobuf-compatible wire format described in
// SPEC_FULL.md §4.D: fields are emitted in ascending field-id order, and
// any field whose current value equals its schema default is omitted.
func Encode(m odvd.Described) ([]byte, error) {
	meta := m.Meta()
	e := &encoder{fields: fieldIndex(meta)}
	m.Accept(e)
	if e.err != nil {
		return nil, e.err
	}

	sort.Slice(e.entries, func(i, j int) bool { return e.entries[i].id < e.entries[j].id })
	var out []byte
	for _, en := range e.entries {
		out = append(out, en.payload...)
	}
	return out, nil
}

func fieldIndex(meta odvd.MetaMessage) map[uint32]odvd.MetaField {
	idx := make(map[uint32]odvd.MetaField, len(meta.Fields))
	for _, f := range meta.Fields {
		idx[f.ID] = f
	}
	return idx
}

type entry struct {
	id      uint32
	payload []byte
}

type encoder struct {
	visitor.NopVisitor
	fields  map[uint32]odvd.MetaField
	entries []entry
	err     error
}

func (e *encoder) PreVisit(uint32, string, string) {}
func (e *encoder) PostVisit()                      {}

func (e *encoder) emit(id uint32, build func([]byte) []byte) {
	if e.err != nil {
		return
	}
	e.entries = append(e.entries, entry{id: id, payload: build(nil)})
}

func (e *encoder) VisitBool(id uint32, _ string, v *bool) {
	f, ok := e.fields[id]
	if !ok || *v == f.ZeroValue().(bool) {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.VarintType)
		x := uint64(0)
		if *v {
			x = 1
		}
		return wire.AppendVarint(b, x)
	})
}

func (e *encoder) VisitChar(id uint32, _ string, v *byte) {
	f, ok := e.fields[id]
	if !ok || *v == f.ZeroValue().(uint8) {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.VarintType)
		return wire.AppendVarint(b, uint64(*v))
	})
}

func (e *encoder) VisitUint8(id uint32, _ string, v *uint8) {
	f, ok := e.fields[id]
	if !ok || *v == f.ZeroValue().(uint8) {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.VarintType)
		return wire.AppendVarint(b, uint64(*v))
	})
}

func (e *encoder) VisitInt8(id uint32, _ string, v *int8) {
	f, ok := e.fields[id]
	if !ok || *v == f.ZeroValue().(int8) {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.VarintType)
		return wire.AppendVarint(b, wire.EncodeZigzag32(int32(*v)))
	})
}

func (e *encoder) VisitUint16(id uint32, _ string, v *uint16) {
	f, ok := e.fields[id]
	if !ok || *v == f.ZeroValue().(uint16) {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.VarintType)
		return wire.AppendVarint(b, uint64(*v))
	})
}

func (e *encoder) VisitInt16(id uint32, _ string, v *int16) {
	f, ok := e.fields[id]
	if !ok || *v == f.ZeroValue().(int16) {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.VarintType)
		return wire.AppendVarint(b, wire.EncodeZigzag32(int32(*v)))
	})
}

func (e *encoder) VisitUint32(id uint32, _ string, v *uint32) {
	f, ok := e.fields[id]
	if !ok || *v == f.ZeroValue().(uint32) {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.VarintType)
		return wire.AppendVarint(b, uint64(*v))
	})
}

func (e *encoder) VisitInt32(id uint32, _ string, v *int32) {
	f, ok := e.fields[id]
	if !ok || *v == f.ZeroValue().(int32) {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.VarintType)
		return wire.AppendVarint(b, wire.EncodeZigzag32(*v))
	})
}

func (e *encoder) VisitUint64(id uint32, _ string, v *uint64) {
	f, ok := e.fields[id]
	if !ok || *v == f.ZeroValue().(uint64) {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.VarintType)
		return wire.AppendVarint(b, *v)
	})
}

func (e *encoder) VisitInt64(id uint32, _ string, v *int64) {
	f, ok := e.fields[id]
	if !ok || *v == f.ZeroValue().(int64) {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.VarintType)
		return wire.AppendVarint(b, wire.EncodeZigzag64(*v))
	})
}

func (e *encoder) VisitFloat(id uint32, _ string, v *float32) {
	f, ok := e.fields[id]
	if !ok || *v == f.ZeroValue().(float32) {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.Fixed32Type)
		return wire.AppendFixed32(b, float32bits(*v))
	})
}

func (e *encoder) VisitDouble(id uint32, _ string, v *float64) {
	f, ok := e.fields[id]
	if !ok || *v == f.ZeroValue().(float64) {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.Fixed64Type)
		return wire.AppendFixed64(b, float64bits(*v))
	})
}

func (e *encoder) VisitString(id uint32, _ string, v *string) {
	f, ok := e.fields[id]
	if !ok || *v == f.ZeroValue().(string) {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.BytesType)
		return wire.AppendBytes(b, []byte(*v))
	})
}

func (e *encoder) VisitBytes(id uint32, _ string, v *[]byte) {
	if _, ok := e.fields[id]; !ok || len(*v) == 0 {
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.BytesType)
		return wire.AppendBytes(b, *v)
	})
}

func (e *encoder) VisitMessage(id uint32, _ string, v visitor.Visitable) {
	if e.err != nil {
		return
	}
	d, ok := v.(odvd.Described)
	if !ok {
		return
	}
	nested, err := Encode(d)
	if err != nil {
		e.err = err
		return
	}
	e.emit(id, func(b []byte) []byte {
		b = wire.AppendTag(b, wire.Number(id), wire.BytesType)
		return wire.AppendBytes(b, nested)
	})
}
