package ir_test

import (
	"encoding/json"
	"testing"

	"github.com/nodeflowrun/automator/internal/ir"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValueJSONRoundTrip(t *testing.T) {
	var v ir.Value
	require.NoError(t, json.Unmarshal([]byte(`{"a": 1, "b": [true, null, "x"]}`), &v))

	a, ok := v.Field("a")
	require.True(t, ok)
	n, ok := a.Number()
	require.True(t, ok)
	require.Equal(t, 1.0, n)

	b, ok := v.Field("b")
	require.True(t, ok)
	items, ok := b.Items()
	require.True(t, ok)
	require.Len(t, items, 3)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	require.JSONEq(t, `{"a": 1, "b": [true, null, "x"]}`, string(out))
}

func TestValuePreservesMappingKeyOrder(t *testing.T) {
	var v ir.Value
	require.NoError(t, json.Unmarshal([]byte(`{"z": 1, "a": 2}`), &v))

	entries, ok := v.Entries()
	require.True(t, ok)
	require.Equal(t, "z", entries[0].Key)
	require.Equal(t, "a", entries[1].Key)
}

func TestValueYAMLDecode(t *testing.T) {
	var v ir.Value
	require.NoError(t, yaml.Unmarshal([]byte("message: hi\ncount: 3\nflag: true\n"), &v))

	msg, ok := v.Field("message")
	require.True(t, ok)
	s, ok := msg.Str()
	require.True(t, ok)
	require.Equal(t, "hi", s)

	count, ok := v.Field("count")
	require.True(t, ok)
	n, ok := count.Number()
	require.True(t, ok)
	require.Equal(t, 3.0, n)
}

func TestValueIsRef(t *testing.T) {
	v := ir.Mapping([]ir.Entry{{Key: "$ref", Value: ir.String("$.nodes.a.output.x")}})
	path, ok := v.IsRef()
	require.True(t, ok)
	require.Equal(t, "$.nodes.a.output.x", path)

	notRef := ir.Mapping([]ir.Entry{{Key: "other", Value: ir.String("x")}})
	_, ok = notRef.IsRef()
	require.False(t, ok)
}

func TestValueEqual(t *testing.T) {
	a := ir.Mapping([]ir.Entry{{Key: "x", Value: ir.Number(1)}})
	b := ir.Mapping([]ir.Entry{{Key: "x", Value: ir.Number(1)}})
	c := ir.Mapping([]ir.Entry{{Key: "x", Value: ir.Number(2)}})

	require.True(t, ir.Equal(a, b))
	require.False(t, ir.Equal(a, c))
}
