package odvd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cluon-io/cluon/odvd"
)

func TestParseScenario1(t *testing.T) {
	src := `message T [id=1]{ int32 x [id=1]; string s [id=2]; }`
	messages, errs := odvd.Parse(src)
	require.Empty(t, errs)
	require.Len(t, messages, 1)

	m := messages[0]
	assert.Equal(t, "T", m.LongName)
	assert.Equal(t, uint32(1), m.ID)
	require.Len(t, m.Fields, 2)
	assert.Equal(t, odvd.Int32, m.Fields[0].Type)
	assert.Equal(t, "x", m.Fields[0].Name)
	assert.Equal(t, uint32(1), m.Fields[0].ID)
	assert.Equal(t, odvd.String, m.Fields[1].Type)
	assert.Equal(t, "s", m.Fields[1].Name)
}

func TestParseDefaultLiteral(t *testing.T) {
	src := `message U [id=2]{ int32 y [default=-10000, id=1]; }`
	messages, errs := odvd.Parse(src)
	require.Empty(t, errs)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Fields, 1)
	assert.Equal(t, int32(-10000), messages[0].Fields[0].Default)
}

func TestParseDottedNamesAndComments(t *testing.T) {
	src := `
// a top-level comment
message a.b.Foo [id=10] {
	int32 attr1 [id=1]; // trailing comment
	a.b.Bar nested [id=2];
}

message a.b.Bar [id=11] {
	bool flag [id=1];
}
`
	messages, errs := odvd.Parse(src)
	require.Empty(t, errs)
	require.Len(t, messages, 2)
	assert.Equal(t, "a.b.Foo", messages[0].LongName)
	assert.Equal(t, "Foo", messages[0].ShortName())
	assert.Equal(t, odvd.Message, messages[0].Fields[1].Type)
	assert.Equal(t, "a.b.Bar", messages[0].Fields[1].MessageTypeName)
}

func TestParseDuplicateFieldID(t *testing.T) {
	src := `message T [id=1]{ int32 x [id=1]; string s [id=1]; }`
	_, errs := odvd.Parse(src)
	require.NotEmpty(t, errs)
	assert.Equal(t, odvd.DuplicateFieldID, errs[0].Kind)
}

func TestParseDuplicateMessageID(t *testing.T) {
	src := `message T [id=1]{ int32 x [id=1]; } message U [id=1]{ int32 y [id=1]; }`
	_, errs := odvd.Parse(src)
	require.NotEmpty(t, errs)
	assert.Equal(t, odvd.DuplicateMessageID, errs[0].Kind)
}

func TestParseUnknownType(t *testing.T) {
	src := `message T [id=1]{ a.b.DoesNotExist x [id=1]; }`
	_, errs := odvd.Parse(src)
	require.NotEmpty(t, errs)
	assert.Equal(t, odvd.UnknownType, errs[0].Kind)
}

func TestParseSyntaxErrorReturnsPartialResults(t *testing.T) {
	src := `message T [id=1]{ int32 x [id=1]; !!! } message U [id=2]{ bool ok [id=1]; }`
	messages, errs := odvd.Parse(src)
	require.NotEmpty(t, errs)
	// Partial results: at least the second, well-formed message should
	// still come back per SPEC_FULL.md §4.A.
	var names []string
	for _, m := range messages {
		names = append(names, m.LongName)
	}
	assert.Contains(t, names, "U")
}

func TestCorpusLookup(t *testing.T) {
	src := `message a.Foo [id=1]{ bool flag [id=1]; }`
	corpus, errs := odvd.ParseCorpus(src)
	require.Empty(t, errs)

	m, ok := corpus.ByLongName("a.Foo")
	require.True(t, ok)
	assert.Equal(t, uint32(1), m.ID)

	m2, ok := corpus.ByMessageID(1)
	require.True(t, ok)
	assert.Equal(t, "a.Foo", m2.LongName)

	_, ok = corpus.ByLongName("a.Missing")
	assert.False(t, ok)
}

func TestFieldZeroValue(t *testing.T) {
	f := odvd.MetaField{Type: odvd.Int32}
	assert.Equal(t, int32(0), f.ZeroValue())

	f.Default = int32(-10000)
	assert.Equal(t, int32(-10000), f.ZeroValue())
}
