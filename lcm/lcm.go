// Package lcm implements component I of SPEC_FULL.md: a bridge from LCM's
// positional, tagless wire format into a GenericMessage, driven by the same
// visitor framework every other codec in this module uses — the difference
// from protocodec is that fields are read purely positionally, in schema
// declaration order, rather than dispatched by a wire tag.
package lcm

import (
	"encoding/binary"
	"math"

	"github.com/cluon-io/cluon/genericmessage"
	"github.com/cluon-io/cluon/odvd"
	"github.com/cluon-io/cluon/visitor"
)

// truncatedError is a cerrors.WireError; ErrTruncated is the sentinel
// callers compare against with errors.Is.
type truncatedError struct{}

func (truncatedError) Error() string { return "lcm: truncated message" }
func (truncatedError) Wire() bool    { return true }

// ErrTruncated is returned when the input ends before every positional
// field required by the schema has been read.
var ErrTruncated error = truncatedError{}

const hashSize = 8

// Decode parses a single LCM-encoded message: the leading 8-byte type hash
// is skipped (it is an opaque fingerprint, not needed to interpret the
// payload once the schema is already known), then meta's fields are read
// positionally in declaration order into a fresh GenericMessage.
func Decode(data []byte, meta odvd.MetaMessage, corpus *odvd.Corpus) (*genericmessage.GenericMessage, error) {
	d := &decoder{data: data}
	d.readN(hashSize)
	if d.err != nil {
		return nil, d.err
	}

	g := genericmessage.New(meta, corpus)
	g.Accept(d)
	if d.err != nil {
		return nil, d.err
	}
	return g, nil
}

type decoder struct {
	visitor.NopVisitor
	data []byte
	pos  int
	err  error
}

func (d *decoder) readN(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.pos+n > len(d.data) {
		d.err = ErrTruncated
		return nil
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b
}

func (d *decoder) VisitBool(_ uint32, _ string, v *bool) {
	b := d.readN(1)
	if b != nil {
		*v = b[0] != 0
	}
}

func (d *decoder) VisitChar(_ uint32, _ string, v *byte) {
	b := d.readN(1)
	if b != nil {
		*v = b[0]
	}
}

func (d *decoder) VisitUint8(_ uint32, _ string, v *uint8) {
	b := d.readN(1)
	if b != nil {
		*v = b[0]
	}
}

func (d *decoder) VisitInt8(_ uint32, _ string, v *int8) {
	b := d.readN(1)
	if b != nil {
		*v = int8(b[0])
	}
}

func (d *decoder) VisitUint16(_ uint32, _ string, v *uint16) {
	b := d.readN(2)
	if b != nil {
		*v = binary.BigEndian.Uint16(b)
	}
}

func (d *decoder) VisitInt16(_ uint32, _ string, v *int16) {
	b := d.readN(2)
	if b != nil {
		*v = int16(binary.BigEndian.Uint16(b))
	}
}

func (d *decoder) VisitUint32(_ uint32, _ string, v *uint32) {
	b := d.readN(4)
	if b != nil {
		*v = binary.BigEndian.Uint32(b)
	}
}

func (d *decoder) VisitInt32(_ uint32, _ string, v *int32) {
	b := d.readN(4)
	if b != nil {
		*v = int32(binary.BigEndian.Uint32(b))
	}
}

func (d *decoder) VisitUint64(_ uint32, _ string, v *uint64) {
	b := d.readN(8)
	if b != nil {
		*v = binary.BigEndian.Uint64(b)
	}
}

func (d *decoder) VisitInt64(_ uint32, _ string, v *int64) {
	b := d.readN(8)
	if b != nil {
		*v = int64(binary.BigEndian.Uint64(b))
	}
}

func (d *decoder) VisitFloat(_ uint32, _ string, v *float32) {
	b := d.readN(4)
	if b != nil {
		*v = math.Float32frombits(binary.BigEndian.Uint32(b))
	}
}

func (d *decoder) VisitDouble(_ uint32, _ string, v *float64) {
	b := d.readN(8)
	if b != nil {
		*v = math.Float64frombits(binary.BigEndian.Uint64(b))
	}
}

// VisitString reads a 4-byte length (counting the trailing NUL) followed by
// that many UTF-8 bytes, and strips the trailing NUL, per §4.I.
func (d *decoder) VisitString(_ uint32, _ string, v *string) {
	lenBytes := d.readN(4)
	if lenBytes == nil {
		return
	}
	n := int(int32(binary.BigEndian.Uint32(lenBytes)))
	if n <= 0 {
		*v = ""
		return
	}
	b := d.readN(n)
	if b == nil {
		return
	}
	if b[n-1] == 0 {
		b = b[:n-1]
	}
	*v = string(b)
}

// VisitBytes reads a 4-byte length followed by that many raw bytes.
func (d *decoder) VisitBytes(_ uint32, _ string, v *[]byte) {
	lenBytes := d.readN(4)
	if lenBytes == nil {
		return
	}
	n := int(int32(binary.BigEndian.Uint32(lenBytes)))
	if n <= 0 {
		*v = nil
		return
	}
	b := d.readN(n)
	if b == nil {
		return
	}
	*v = append([]byte(nil), b...)
}

// VisitMessage recurses into a nested message's own 8-byte hash plus its
// positional fields, using the same decoder instance.
func (d *decoder) VisitMessage(_ uint32, _ string, v visitor.Visitable) {
	d.readN(hashSize)
	if d.err != nil {
		return
	}
	v.Accept(d)
}
