package jsonvalue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_MissingFieldNeverPanics(t *testing.T) {
	v, err := Parse([]byte(`{"a":1}`))
	require.NoError(t, err)

	missing := v.Get("b")
	require.True(t, missing.IsNull())

	_, ok := missing.AsString()
	require.False(t, ok)
}

func TestParse_WrongTypedFieldSurfacesAsMismatch(t *testing.T) {
	v, err := Parse([]byte(`{"disabled":"yes"}`))
	require.NoError(t, err)

	_, ok := v.Get("disabled").AsBool()
	require.False(t, ok)
}

func TestPath_WalksNestedObjects(t *testing.T) {
	v, err := Parse([]byte(`{"bindings":{"input":[{"type":"queueTrigger"}]}}`))
	require.NoError(t, err)

	arr, ok := v.Path("bindings", "input").AsArray()
	require.True(t, ok)
	require.Len(t, arr, 1)

	typ, _ := arr[0].Get("type").AsString()
	require.Equal(t, "queueTrigger", typ)
}

func TestRoundTrip_PreservesKeyOrder(t *testing.T) {
	raw := []byte(`{"z":1,"a":2,"m":3}`)
	v, err := ParsePreservingOrder(raw)
	require.NoError(t, err)
	require.Equal(t, []string{"z", "a", "m"}, v.Keys())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	require.JSONEq(t, string(raw), string(out))
	require.Equal(t, `{"z":1,"a":2,"m":3}`, string(out))
}

func TestTruthy(t *testing.T) {
	require.False(t, Null().Truthy())
	require.False(t, Bool(false).Truthy())
	require.True(t, Bool(true).Truthy())
	require.False(t, String("").Truthy())
	require.True(t, String("x").Truthy())
}

func TestObjectBuiltFromPairsPreservesOrder(t *testing.T) {
	v := Object(KV{Key: "b", Val: String("2")}, KV{Key: "a", Val: String("1")})
	require.Equal(t, []string{"b", "a"}, v.Keys())
}
