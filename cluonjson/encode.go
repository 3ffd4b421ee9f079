// Package cluonjson implements component E of SPEC_FULL.md: a stateless
// JSON encoder visitor driven by the same traversal every codec in this
// module uses, so any Described message — statically generated or a
// runtime-bound GenericMessage — can be rendered to JSON without a
// reflection-based marshaler.
package cluonjson

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/cluon-io/cluon/odvd"
	"github.com/cluon-io/cluon/visitor"
)

// Options configures the encoder.
type Options struct {
	// Mask, if non-nil, suppresses every field whose id maps to false.
	// A field absent from Mask is included; SPEC_FULL.md §4.E's "suppress
	// selected fields" semantics are expressed by setting an entry to false.
	Mask map[uint32]bool

	// OuterBraces wraps the emitted field list in "{" "}" when true. Callers
	// that compose the output into a larger object (e.g. Envelope
	// transcoding) pass false and add their own braces.
	OuterBraces bool
}

// Encode renders m as JSON per SPEC_FULL.md §4.E.
func Encode(m odvd.Described, opts Options) ([]byte, error) {
	e := &encoder{opts: opts}
	m.Accept(e)
	if e.err != nil {
		return nil, e.err
	}
	if !opts.OuterBraces {
		return e.buf.Bytes(), nil
	}
	var out []byte
	out = append(out, '{')
	out = append(out, e.buf.Bytes()...)
	out = append(out, '}')
	return out, nil
}

type encoder struct {
	opts   Options
	buf    strings.Builder
	n      int
	err    error
}

func (e *encoder) included(id uint32) bool {
	if e.opts.Mask == nil {
		return true
	}
	include, ok := e.opts.Mask[id]
	return !ok || include
}

func (e *encoder) writeKey(name string) {
	if e.n > 0 {
		e.buf.WriteString(",\n")
	}
	e.n++
	e.buf.WriteByte('"')
	e.buf.WriteString(name)
	e.buf.WriteString("\":")
}

func (e *encoder) PreVisit(uint32, string, string) {}
func (e *encoder) PostVisit()                      {}

func (e *encoder) VisitBool(id uint32, name string, v *bool) {
	if !e.included(id) {
		return
	}
	e.writeKey(name)
	if *v {
		e.buf.WriteString("true")
	} else {
		e.buf.WriteString("false")
	}
}

func (e *encoder) VisitChar(id uint32, name string, v *byte) {
	e.visitUint(id, name, uint64(*v))
}

func (e *encoder) VisitUint8(id uint32, name string, v *uint8) {
	e.visitUint(id, name, uint64(*v))
}

func (e *encoder) VisitInt8(id uint32, name string, v *int8) {
	e.visitInt(id, name, int64(*v))
}

func (e *encoder) VisitUint16(id uint32, name string, v *uint16) {
	e.visitUint(id, name, uint64(*v))
}

func (e *encoder) VisitInt16(id uint32, name string, v *int16) {
	e.visitInt(id, name, int64(*v))
}

func (e *encoder) VisitUint32(id uint32, name string, v *uint32) {
	e.visitUint(id, name, uint64(*v))
}

func (e *encoder) VisitInt32(id uint32, name string, v *int32) {
	e.visitInt(id, name, int64(*v))
}

func (e *encoder) VisitUint64(id uint32, name string, v *uint64) {
	e.visitUint(id, name, *v)
}

func (e *encoder) VisitInt64(id uint32, name string, v *int64) {
	e.visitInt(id, name, *v)
}

func (e *encoder) visitUint(id uint32, name string, v uint64) {
	if !e.included(id) {
		return
	}
	e.writeKey(name)
	e.buf.WriteString(strconv.FormatUint(v, 10))
}

func (e *encoder) visitInt(id uint32, name string, v int64) {
	if !e.included(id) {
		return
	}
	e.writeKey(name)
	e.buf.WriteString(strconv.FormatInt(v, 10))
}

func (e *encoder) VisitFloat(id uint32, name string, v *float32) {
	if !e.included(id) {
		return
	}
	e.writeKey(name)
	e.writeFloat(float64(*v), 32)
}

func (e *encoder) VisitDouble(id uint32, name string, v *float64) {
	if !e.included(id) {
		return
	}
	e.writeKey(name)
	e.writeFloat(*v, 64)
}

func (e *encoder) writeFloat(f float64, bitSize int) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		e.buf.WriteString("null")
		return
	}
	e.buf.WriteString(strconv.FormatFloat(f, 'g', -1, bitSize))
}

func (e *encoder) VisitString(id uint32, name string, v *string) {
	if !e.included(id) {
		return
	}
	e.writeKey(name)
	e.buf.WriteByte('"')
	escapeString(&e.buf, *v)
	e.buf.WriteByte('"')
}

func (e *encoder) VisitBytes(id uint32, name string, v *[]byte) {
	if !e.included(id) {
		return
	}
	e.writeKey(name)
	e.buf.WriteByte('"')
	e.buf.WriteString(base64.StdEncoding.EncodeToString(*v))
	e.buf.WriteByte('"')
}

func (e *encoder) VisitMessage(id uint32, name string, v visitor.Visitable) {
	if e.err != nil || !e.included(id) {
		return
	}
	d, ok := v.(odvd.Described)
	if !ok {
		return
	}
	nested, err := Encode(d, Options{OuterBraces: true})
	if err != nil {
		e.err = err
		return
	}
	e.writeKey(name)
	e.buf.Write(nested)
}

// escapeString writes s to buf with the escapes required by §4.E: the
// standard JSON control characters plus every byte below 0x20 as \u00XX.
func escapeString(buf *strings.Builder, s string) {
	const hex = "0123456789abcdef"
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '/':
			buf.WriteString(`\/`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if c < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hex[c>>4])
				buf.WriteByte(hex[c&0xf])
			} else {
				buf.WriteByte(c)
			}
		}
	}
}

// LongNameKey replaces dots in a MetaMessage long name with underscores, as
// used when a payload type's long name becomes a JSON object key during
// Envelope transcoding (§4.G).
func LongNameKey(longName string) string {
	return strings.ReplaceAll(longName, ".", "_")
}
