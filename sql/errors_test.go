package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParseErrorCarriesOffset(t *testing.T) {
	err := NewParseError(12, "unexpected token")
	we := AsWireError(err)
	require.NotNil(t, we)
	assert.Equal(t, KindParse, we.Kind)
	assert.Equal(t, 12, we.Offset)
	assert.Contains(t, we.Error(), "12")
}

func TestAsWireErrorClassifiesKinds(t *testing.T) {
	assert.Equal(t, KindPlan, AsWireError(ErrPlan.New("bad plan")).Kind)
	assert.Equal(t, KindStore, AsWireError(ErrStore.New("bad store")).Kind)
	assert.Equal(t, KindType, AsWireError(ErrType.New("bad type")).Kind)
	assert.Equal(t, KindNotFound, AsWireError(ErrNotFound.New("missing")).Kind)
}

func TestAsWireErrorWrapsUnknownErrorsAsStore(t *testing.T) {
	we := AsWireError(assertError{"boom"})
	assert.Equal(t, KindStore, we.Kind)
}

func TestAsWireErrorNilIsNil(t *testing.T) {
	assert.Nil(t, AsWireError(nil))
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
