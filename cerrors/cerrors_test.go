package cerrors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cluon-io/cluon/lcm"
	"github.com/cluon-io/cluon/odvd"
	"github.com/cluon-io/cluon/wire"
)

func TestNewSchemaErrorSatisfiesSchemaError(t *testing.T) {
	err := NewSchemaError("unknown type", "no such message %q", "a.B")
	assert.True(t, IsSchemaError(err))
	assert.False(t, IsWireError(err))
}

func TestNewWireErrorSatisfiesWireError(t *testing.T) {
	err := NewWireError("truncated at offset %d", 4)
	assert.True(t, IsWireError(err))
	assert.False(t, IsSchemaError(err))
}

func TestOdvdParseErrorSatisfiesSchemaError(t *testing.T) {
	_, errs := odvd.Parse(`message T [id=1]{ a.b.DoesNotExist x [id=1]; }`)
	if assert.NotEmpty(t, errs) {
		assert.True(t, IsSchemaError(errs[0]))
	}
}

func TestWireErrorSatisfiesWireError(t *testing.T) {
	assert.True(t, IsWireError(wire.ErrTruncated))
}

func TestLCMTruncatedErrorSatisfiesWireError(t *testing.T) {
	assert.True(t, IsWireError(lcm.ErrTruncated))
}
