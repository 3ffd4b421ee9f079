package cluonjson

import (
	"testing"

	"github.com/cluon-io/cluon/odvd"
	"github.com/cluon-io/cluon/visitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonT struct {
	X int32
	S string
	B []byte
	F float64
}

var jsonTMeta = odvd.MetaMessage{
	LongName: "a.b.T",
	ID:       1,
	Fields: []odvd.MetaField{
		{ID: 1, Type: odvd.Int32, Name: "x"},
		{ID: 2, Type: odvd.String, Name: "s"},
		{ID: 3, Type: odvd.Bytes, Name: "b"},
		{ID: 4, Type: odvd.Double, Name: "f"},
	},
}

func (m *jsonT) Meta() odvd.MetaMessage { return jsonTMeta }

func (m *jsonT) Accept(v visitor.Visitor) {
	v.PreVisit(jsonTMeta.ID, jsonTMeta.ShortName(), jsonTMeta.LongName)
	v.VisitInt32(1, "x", &m.X)
	v.VisitString(2, "s", &m.S)
	v.VisitBytes(3, "b", &m.B)
	v.VisitDouble(4, "f", &m.F)
	v.PostVisit()
}

func (m *jsonT) AcceptTarget(visitor.Visitor, uint32) {}

type jsonOuter struct {
	Label string
	Inner jsonT
}

var jsonOuterMeta = odvd.MetaMessage{
	LongName: "a.b.Outer",
	ID:       2,
	Fields: []odvd.MetaField{
		{ID: 1, Type: odvd.String, Name: "label"},
		{ID: 2, Type: odvd.Message, Name: "inner", MessageTypeName: "a.b.T"},
	},
}

func (m *jsonOuter) Meta() odvd.MetaMessage { return jsonOuterMeta }

func (m *jsonOuter) Accept(v visitor.Visitor) {
	v.PreVisit(jsonOuterMeta.ID, jsonOuterMeta.ShortName(), jsonOuterMeta.LongName)
	v.VisitString(1, "label", &m.Label)
	v.VisitMessage(2, "inner", &m.Inner)
	v.PostVisit()
}

func (m *jsonOuter) AcceptTarget(visitor.Visitor, uint32) {}

func TestEncodePrimitives(t *testing.T) {
	m := &jsonT{X: 42, S: "hi\n\"there\"", B: []byte("ab"), F: 1.5}
	b, err := Encode(m, Options{OuterBraces: true})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"x":42`)
	assert.Contains(t, string(b), `"s":"hi\n\"there\""`)
	assert.Contains(t, string(b), `"b":"YWI="`)
	assert.Contains(t, string(b), `"f":1.5`)
	assert.Equal(t, byte('{'), b[0])
	assert.Equal(t, byte('}'), b[len(b)-1])
}

func TestEncodeNaNAndInfAreNull(t *testing.T) {
	m := &jsonT{}
	m.F = nanFloat()
	b, err := Encode(m, Options{OuterBraces: true})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"f":null`)
}

func nanFloat() float64 {
	var zero float64
	return zero / zero
}

func TestEncodeNestedMessage(t *testing.T) {
	m := &jsonOuter{Label: "outer", Inner: jsonT{X: 7, S: "in"}}
	b, err := Encode(m, Options{OuterBraces: true})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"label":"outer"`)
	assert.Contains(t, string(b), `"inner":{`)
	assert.Contains(t, string(b), `"x":7`)
}

func TestEncodeMaskSuppressesField(t *testing.T) {
	m := &jsonT{X: 42, S: "secret"}
	b, err := Encode(m, Options{OuterBraces: true, Mask: map[uint32]bool{2: false}})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"x":42`)
	assert.NotContains(t, string(b), "secret")
}

func TestLongNameKeyReplacesDots(t *testing.T) {
	assert.Equal(t, "testdata_MyTestMessage5", LongNameKey("testdata.MyTestMessage5"))
}
