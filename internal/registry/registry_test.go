package registry

import (
	"testing"

	"github.com/nodeflowrun/automator/internal/handler"
	"github.com/nodeflowrun/automator/internal/ir"
	"github.com/stretchr/testify/require"
)

func echoHandler(tag string) handler.Handler {
	return handler.Func(func(node ir.Node, input ir.Value) (ir.Value, error) {
		return ir.Mapping([]ir.Entry{{Key: "tag", Value: ir.String(tag)}}), nil
	})
}

func TestRegisterAndLookup(t *testing.T) {
	defer reset()

	Register("plugin.test.echo", "v1", echoHandler("real"))

	h, err := Lookup("plugin.test.echo", "v1", false)
	require.NoError(t, err)
	out, err := h.Run(ir.Node{}, ir.Null())
	require.NoError(t, err)
	tag, _ := out.Field("tag")
	s, _ := tag.Str()
	require.Equal(t, "real", s)
}

func TestLookupUnknownActionFails(t *testing.T) {
	defer reset()

	_, err := Lookup("plugin.test.missing", "v1", false)
	require.Error(t, err)
}

func TestMockOverlayWinsWhenMockIOEnabled(t *testing.T) {
	defer reset()

	Register("plugin.test.echo", "v1", echoHandler("real"))
	RegisterMock("plugin.test.echo", "v1", echoHandler("mock"))

	h, err := Lookup("plugin.test.echo", "v1", true)
	require.NoError(t, err)
	out, _ := h.Run(ir.Node{}, ir.Null())
	tag, _ := out.Field("tag")
	s, _ := tag.Str()
	require.Equal(t, "mock", s)
}

func TestRealHandlerUsedWhenMockIODisabled(t *testing.T) {
	defer reset()

	Register("plugin.test.echo", "v1", echoHandler("real"))
	RegisterMock("plugin.test.echo", "v1", echoHandler("mock"))

	h, err := Lookup("plugin.test.echo", "v1", false)
	require.NoError(t, err)
	out, _ := h.Run(ir.Node{}, ir.Null())
	tag, _ := out.Field("tag")
	s, _ := tag.Str()
	require.Equal(t, "real", s)
}

func TestMockOverlayUsedAloneWhenNoRealHandler(t *testing.T) {
	defer reset()

	RegisterMock("plugin.test.onlymock", "v1", echoHandler("mock"))

	h, err := Lookup("plugin.test.onlymock", "v1", true)
	require.NoError(t, err)
	out, _ := h.Run(ir.Node{}, ir.Null())
	tag, _ := out.Field("tag")
	s, _ := tag.Str()
	require.Equal(t, "mock", s)
}
