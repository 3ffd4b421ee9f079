package odvd

import "strings"

// FieldType enumerates the primitive-or-message type tags a MetaField can
// carry, per SPEC_FULL.md §3.
type FieldType uint8

const (
	_ FieldType = iota
	Bool
	Char
	Uint8
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Uint64
	Int64
	Float
	Double
	String
	Bytes
	Message
)

var typeNames = map[string]FieldType{
	"bool":   Bool,
	"char":   Char,
	"uint8":  Uint8,
	"int8":   Int8,
	"uint16": Uint16,
	"int16":  Int16,
	"uint32": Uint32,
	"int32":  Int32,
	"uint64": Uint64,
	"int64":  Int64,
	"float":  Float,
	"double": Double,
	"string": String,
	"bytes":  Bytes,
}

func (t FieldType) String() string {
	for name, ft := range typeNames {
		if ft == t {
			return name
		}
	}
	if t == Message {
		return "message"
	}
	return "unknown"
}

// IsVarint reports whether t is wire-encoded as a Protobuf varint (possibly
// ZigZag-encoded for the signed kinds).
func (t FieldType) IsVarint() bool {
	switch t {
	case Bool, Char, Uint8, Uint16, Uint32, Uint64, Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// IsSigned reports whether t requires ZigZag encoding rather than a plain
// unsigned varint.
func (t FieldType) IsSigned() bool {
	switch t {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// IsLengthDelimited reports whether t is wire-encoded with a varint length
// prefix followed by raw bytes.
func (t FieldType) IsLengthDelimited() bool {
	switch t {
	case String, Bytes, Message:
		return true
	default:
		return false
	}
}

// MetaField describes one field of a MetaMessage.
type MetaField struct {
	ID   uint32
	Type FieldType
	Name string

	// Default holds the field's declared default literal, typed to match
	// Type (bool, byte/intN/uintN, float32, float64, string). Nil means no
	// default was declared; the implicit default is then the zero value of
	// Type (or, for Bytes, a nil slice).
	Default any

	// MessageTypeName is the dotted long name of the referenced MetaMessage
	// when Type == Message; empty otherwise.
	MessageTypeName string
}

// ZeroValue returns the implicit (proto3-style) default for the field: its
// declared Default if present, otherwise the zero value for its Type.
func (f MetaField) ZeroValue() any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Type {
	case Bool:
		return false
	case Char, Uint8:
		return uint8(0)
	case Int8:
		return int8(0)
	case Uint16:
		return uint16(0)
	case Int16:
		return int16(0)
	case Uint32:
		return uint32(0)
	case Int32:
		return int32(0)
	case Uint64:
		return uint64(0)
	case Int64:
		return int64(0)
	case Float:
		return float32(0)
	case Double:
		return float64(0)
	case String:
		return ""
	case Bytes:
		return []byte(nil)
	default:
		return nil
	}
}

// MetaMessage describes one message type: its identity and its ordered
// fields, per SPEC_FULL.md §3.
type MetaMessage struct {
	LongName string
	ID       uint32
	Fields   []MetaField
}

// ShortName returns the last dotted component of LongName, e.g. "Foo" for
// "a.b.Foo".
func (m MetaMessage) ShortName() string {
	if i := strings.LastIndexByte(m.LongName, '.'); i >= 0 {
		return m.LongName[i+1:]
	}
	return m.LongName
}

// FieldByID returns the field with the given id, and whether it was found.
func (m MetaMessage) FieldByID(id uint32) (MetaField, bool) {
	for _, f := range m.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return MetaField{}, false
}

// Corpus indexes a set of MetaMessages parsed together, letting nested
// message fields be resolved by long name without a linear scan.
type Corpus struct {
	Messages    []MetaMessage
	byLongName  map[string]*MetaMessage
	byMessageID map[uint32]*MetaMessage
}

// NewCorpus indexes messages. It does not validate them; Parse already
// performs the duplicate-id/unknown-type checks required by SPEC_FULL §4.A.
func NewCorpus(messages []MetaMessage) *Corpus {
	c := &Corpus{
		Messages:    messages,
		byLongName:  make(map[string]*MetaMessage, len(messages)),
		byMessageID: make(map[uint32]*MetaMessage, len(messages)),
	}
	for i := range c.Messages {
		m := &c.Messages[i]
		c.byLongName[m.LongName] = m
		c.byMessageID[m.ID] = m
	}
	return c
}

// ByLongName looks up a MetaMessage by its dotted package-qualified name.
func (c *Corpus) ByLongName(name string) (*MetaMessage, bool) {
	m, ok := c.byLongName[name]
	return m, ok
}

// ByMessageID looks up a MetaMessage by its numeric identifier.
func (c *Corpus) ByMessageID(id uint32) (*MetaMessage, bool) {
	m, ok := c.byMessageID[id]
	return m, ok
}
