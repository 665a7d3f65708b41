package dict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPassPrePopulated(t *testing.T) {
	d := NewIDDict()
	code, ok := d.Code("PASS")
	require.True(t, ok)
	require.Equal(t, int32(PassCode), code)
}

func TestUnknownKeyIsHardError(t *testing.T) {
	d := New()
	_, err := d.Lookup(5)
	require.ErrorIs(t, err, ErrUnknownKey)
}

func TestSparseIDXSlot(t *testing.T) {
	d := New()
	require.NoError(t, d.PutAt(0, "AC", Entry{Number: "A", Type: "Integer"}))
	require.NoError(t, d.PutAt(3, "AF", Entry{Number: "A", Type: "Float"}))
	_, err := d.Lookup(1)
	require.ErrorIs(t, err, ErrUnknownKey)
	_, err = d.Lookup(2)
	require.ErrorIs(t, err, ErrUnknownKey)
	e, err := d.Lookup(3)
	require.NoError(t, err)
	require.Equal(t, "AF", e.Name)
}

func TestRoundTripCode(t *testing.T) {
	d := New()
	code := d.Put("20", Entry{})
	e, err := d.Lookup(code)
	require.NoError(t, err)
	require.Equal(t, "20", e.Name)
}
