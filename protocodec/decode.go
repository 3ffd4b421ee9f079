package protocodec

import (
	"math"

	"github.com/cluon-io/cluon/odvd"
	"github.com/cluon-io/cluon/visitor"
	"github.com/cluon-io/cluon/wire"
)

// Decode parses a Protobuf-compatible wire-format payload into target,
// per SPEC_FULL.md §4.D. Unknown field-ids are skipped by wire type and
// never cause an error; duplicate field-ids overwrite; missing fields keep
// whatever value target already holds (its declared default, for a
// freshly constructed message). Decode fails only on truncated input, an
// invalid tag (field number 0 or out of range, or an unsupported wire
// type), or a field whose wire type does not match its declared type.
func Decode(data []byte, target odvd.Described) error {
	meta := target.Meta()
	d := &decoder{fields: fieldIndex(meta)}

	i := 0
	for i < len(data) {
		num, typ, n, err := wire.ConsumeTag(data[i:])
		if err != nil {
			return err
		}
		i += n

		if _, ok := d.fields[uint32(num)]; !ok {
			skipped, err := wire.SkipValue(data[i:], typ)
			if err != nil {
				return err
			}
			i += skipped
			continue
		}

		switch typ {
		case wire.VarintType:
			v, n2 := wire.ConsumeVarint(data[i:])
			if n2 <= 0 {
				return wire.ErrTruncated
			}
			i += n2
			d.wireType = typ
			d.varint = v
		case wire.Fixed32Type:
			v, n2 := wire.ConsumeFixed32(data[i:])
			if n2 == 0 {
				return wire.ErrTruncated
			}
			i += n2
			d.wireType = typ
			d.fixed32 = v
		case wire.Fixed64Type:
			v, n2 := wire.ConsumeFixed64(data[i:])
			if n2 == 0 {
				return wire.ErrTruncated
			}
			i += n2
			d.wireType = typ
			d.fixed64 = v
		case wire.BytesType:
			b, n2, err := wire.ConsumeBytes(data[i:])
			if err != nil {
				return err
			}
			i += n2
			d.wireType = typ
			d.bytes = b
		default:
			return wire.ErrInvalidTag
		}

		d.err = nil
		target.AcceptTarget(d, uint32(num))
		if d.err != nil {
			return d.err
		}
	}
	return nil
}

// decoder drives one targeted visit per wire-format field; the raw value
// for the field currently being dispatched is staged in varint/fixed32/
// fixed64/bytes before AcceptTarget is called.
type decoder struct {
	visitor.NopVisitor
	fields map[uint32]odvd.MetaField

	wireType wire.Type
	varint   uint64
	fixed32  uint32
	fixed64  uint64
	bytes    []byte

	err error
}

func (d *decoder) expect(typ wire.Type) bool {
	if d.wireType != typ {
		d.err = wire.ErrWiretypeMismatch
		return false
	}
	return true
}

func (d *decoder) VisitBool(_ uint32, _ string, v *bool) {
	if !d.expect(wire.VarintType) {
		return
	}
	*v = d.varint != 0
}

func (d *decoder) VisitChar(_ uint32, _ string, v *byte) {
	if !d.expect(wire.VarintType) {
		return
	}
	*v = byte(d.varint)
}

func (d *decoder) VisitUint8(_ uint32, _ string, v *uint8) {
	if !d.expect(wire.VarintType) {
		return
	}
	*v = uint8(d.varint)
}

func (d *decoder) VisitInt8(_ uint32, _ string, v *int8) {
	if !d.expect(wire.VarintType) {
		return
	}
	*v = int8(wire.DecodeZigzag32(d.varint))
}

func (d *decoder) VisitUint16(_ uint32, _ string, v *uint16) {
	if !d.expect(wire.VarintType) {
		return
	}
	*v = uint16(d.varint)
}

func (d *decoder) VisitInt16(_ uint32, _ string, v *int16) {
	if !d.expect(wire.VarintType) {
		return
	}
	*v = int16(wire.DecodeZigzag32(d.varint))
}

func (d *decoder) VisitUint32(_ uint32, _ string, v *uint32) {
	if !d.expect(wire.VarintType) {
		return
	}
	*v = uint32(d.varint)
}

func (d *decoder) VisitInt32(_ uint32, _ string, v *int32) {
	if !d.expect(wire.VarintType) {
		return
	}
	*v = wire.DecodeZigzag32(d.varint)
}

func (d *decoder) VisitUint64(_ uint32, _ string, v *uint64) {
	if !d.expect(wire.VarintType) {
		return
	}
	*v = d.varint
}

func (d *decoder) VisitInt64(_ uint32, _ string, v *int64) {
	if !d.expect(wire.VarintType) {
		return
	}
	*v = wire.DecodeZigzag64(d.varint)
}

func (d *decoder) VisitFloat(_ uint32, _ string, v *float32) {
	if !d.expect(wire.Fixed32Type) {
		return
	}
	*v = math.Float32frombits(d.fixed32)
}

func (d *decoder) VisitDouble(_ uint32, _ string, v *float64) {
	if !d.expect(wire.Fixed64Type) {
		return
	}
	*v = math.Float64frombits(d.fixed64)
}

func (d *decoder) VisitString(_ uint32, _ string, v *string) {
	if !d.expect(wire.BytesType) {
		return
	}
	*v = string(d.bytes)
}

func (d *decoder) VisitBytes(_ uint32, _ string, v *[]byte) {
	if !d.expect(wire.BytesType) {
		return
	}
	*v = append([]byte(nil), d.bytes...)
}

func (d *decoder) VisitMessage(_ uint32, _ string, v visitor.Visitable) {
	if !d.expect(wire.BytesType) {
		return
	}
	nested, ok := v.(odvd.Described)
	if !ok {
		return
	}
	if err := Decode(d.bytes, nested); err != nil {
		d.err = err
	}
}
