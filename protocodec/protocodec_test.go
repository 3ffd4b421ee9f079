package protocodec

import (
	"testing"

	"github.com/cluon-io/cluon/odvd"
	"github.com/cluon-io/cluon/visitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testT mirrors the Scenario 1 schema: message T [id=1]{ int32 x [id=1]; string s [id=2]; }
type testT struct {
	X int32
	S string
}

var testTMeta = odvd.MetaMessage{
	LongName: "T",
	ID:       1,
	Fields: []odvd.MetaField{
		{ID: 1, Type: odvd.Int32, Name: "x"},
		{ID: 2, Type: odvd.String, Name: "s"},
	},
}

func (m *testT) Meta() odvd.MetaMessage { return testTMeta }

func (m *testT) Accept(v visitor.Visitor) {
	v.PreVisit(testTMeta.ID, testTMeta.ShortName(), testTMeta.LongName)
	v.VisitInt32(1, "x", &m.X)
	v.VisitString(2, "s", &m.S)
	v.PostVisit()
}

func (m *testT) AcceptTarget(v visitor.Visitor, fieldID uint32) {
	switch fieldID {
	case 1:
		v.VisitInt32(1, "x", &m.X)
	case 2:
		v.VisitString(2, "s", &m.S)
	}
}

// testU mirrors the Scenario 2 schema: message U [id=2]{ int32 y [default=-10000, id=1]; }
type testU struct {
	Y int32
}

var testUMeta = odvd.MetaMessage{
	LongName: "U",
	ID:       2,
	Fields: []odvd.MetaField{
		{ID: 1, Type: odvd.Int32, Name: "y", Default: int32(-10000)},
	},
}

func (m *testU) Meta() odvd.MetaMessage { return testUMeta }

func (m *testU) Accept(v visitor.Visitor) {
	v.PreVisit(testUMeta.ID, testUMeta.ShortName(), testUMeta.LongName)
	v.VisitInt32(1, "y", &m.Y)
	v.PostVisit()
}

func (m *testU) AcceptTarget(v visitor.Visitor, fieldID uint32) {
	if fieldID == 1 {
		v.VisitInt32(1, "y", &m.Y)
	}
}

// testNested embeds a testT at field id 3, exercising VisitMessage recursion.
type testNested struct {
	Label string
	Inner testT
}

var testNestedMeta = odvd.MetaMessage{
	LongName: "Nested",
	ID:       3,
	Fields: []odvd.MetaField{
		{ID: 1, Type: odvd.String, Name: "label"},
		{ID: 2, Type: odvd.Message, Name: "inner", MessageTypeName: "T"},
	},
}

func (m *testNested) Meta() odvd.MetaMessage { return testNestedMeta }

func (m *testNested) Accept(v visitor.Visitor) {
	v.PreVisit(testNestedMeta.ID, testNestedMeta.ShortName(), testNestedMeta.LongName)
	v.VisitString(1, "label", &m.Label)
	v.VisitMessage(2, "inner", &m.Inner)
	v.PostVisit()
}

func (m *testNested) AcceptTarget(v visitor.Visitor, fieldID uint32) {
	switch fieldID {
	case 1:
		v.VisitString(1, "label", &m.Label)
	case 2:
		v.VisitMessage(2, "inner", &m.Inner)
	}
}

func TestEncodeScenario1(t *testing.T) {
	m := &testT{X: -1, S: "hi"}
	b, err := Encode(m)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x08, 0x01, 0x12, 0x02, 0x68, 0x69}, b)
}

func TestDecodeScenario1(t *testing.T) {
	data := []byte{0x08, 0x01, 0x12, 0x02, 0x68, 0x69}
	m := &testT{}
	require.NoError(t, Decode(data, m))
	assert.Equal(t, int32(-1), m.X)
	assert.Equal(t, "hi", m.S)
}

func TestEncodeScenario2DefaultElision(t *testing.T) {
	m := &testU{Y: -10000}
	b, err := Encode(m)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestDecodeScenario2MissingFieldKeepsDefault(t *testing.T) {
	m := &testU{Y: -10000}
	require.NoError(t, Decode(nil, m))
	assert.Equal(t, int32(-10000), m.Y)
}

func TestEncodeFieldIDIndependentOfTraversalOrder(t *testing.T) {
	// invariant 3: wire output is ordered by ascending field id regardless of
	// the order fields are visited in. testT visits x (id 1) before s (id 2)
	// already; reverseT visits them in the opposite order and must still
	// produce identical bytes.
	m := &testT{X: 1, S: "hi"}
	b1, err := Encode(m)
	require.NoError(t, err)

	r := &reverseT{X: 1, S: "hi"}
	b2, err := Encode(r)
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
}

// reverseT has the same schema and fields as testT but visits s before x,
// used only to prove encode ordering does not depend on traversal order.
type reverseT struct {
	X int32
	S string
}

func (m *reverseT) Meta() odvd.MetaMessage { return testTMeta }

func (m *reverseT) Accept(v visitor.Visitor) {
	v.PreVisit(testTMeta.ID, testTMeta.ShortName(), testTMeta.LongName)
	v.VisitString(2, "s", &m.S)
	v.VisitInt32(1, "x", &m.X)
	v.PostVisit()
}

func (m *reverseT) AcceptTarget(v visitor.Visitor, fieldID uint32) {
	switch fieldID {
	case 1:
		v.VisitInt32(1, "x", &m.X)
	case 2:
		v.VisitString(2, "s", &m.S)
	}
}

func TestDecodeUnknownFieldIsSkipped(t *testing.T) {
	// field id 5 (varint, unknown to testT) precedes the known fields and
	// must be skipped without error.
	data := append([]byte{0x28, 0x01}, []byte{0x08, 0x01, 0x12, 0x02, 0x68, 0x69}...)
	m := &testT{}
	require.NoError(t, Decode(data, m))
	assert.Equal(t, int32(-1), m.X)
	assert.Equal(t, "hi", m.S)
}

func TestDecodeTruncatedReturnsError(t *testing.T) {
	m := &testT{}
	err := Decode([]byte{0x08}, m)
	assert.Error(t, err)
}

func TestNestedMessageRoundTrip(t *testing.T) {
	m := &testNested{Label: "outer", Inner: testT{X: 7, S: "in"}}
	b, err := Encode(m)
	require.NoError(t, err)

	out := &testNested{}
	require.NoError(t, Decode(b, out))
	assert.Equal(t, "outer", out.Label)
	assert.Equal(t, int32(7), out.Inner.X)
	assert.Equal(t, "in", out.Inner.S)
}
