package core

import (
	"testing"
	"time"

	"github.com/nodeflowrun/automator/internal/ir"
	"github.com/stretchr/testify/require"
)

func TestRunEchoReturnsMessage(t *testing.T) {
	input := ir.Mapping([]ir.Entry{{Key: "message", Value: ir.String("hi")}})
	out, err := runEcho(ir.Node{}, input)
	require.NoError(t, err)
	msg, ok := out.Field("message")
	require.True(t, ok)
	s, _ := msg.Str()
	require.Equal(t, "hi", s)
}

func TestRunEchoDefaultsOnBlank(t *testing.T) {
	input := ir.Mapping([]ir.Entry{{Key: "message", Value: ir.String("   ")}})
	out, err := runEcho(ir.Node{}, input)
	require.NoError(t, err)
	msg, _ := out.Field("message")
	s, _ := msg.Str()
	require.Equal(t, "(no result)", s)
}

func TestRunEchoDefaultsOnMissing(t *testing.T) {
	out, err := runEcho(ir.Node{}, ir.Mapping(nil))
	require.NoError(t, err)
	msg, _ := out.Field("message")
	s, _ := msg.Str()
	require.Equal(t, "(no result)", s)
}

func TestRunSleepRequiresDuration(t *testing.T) {
	_, err := runSleep(ir.Node{}, ir.Mapping(nil))
	require.Error(t, err)
}

func TestRunSleepRejectsNegativeDuration(t *testing.T) {
	input := ir.Mapping([]ir.Entry{{Key: "duration", Value: ir.Number(-1)}})
	_, err := runSleep(ir.Node{}, input)
	require.Error(t, err)
}

func TestRunSleepSleepsAndReturnsText(t *testing.T) {
	input := ir.Mapping([]ir.Entry{{Key: "duration", Value: ir.Number(0)}})
	start := time.Now()
	out, err := runSleep(ir.Node{}, input)
	require.NoError(t, err)
	require.Less(t, time.Since(start), 2*time.Second)
	text, _ := out.Field("text")
	s, _ := text.Str()
	require.Equal(t, "Slept for 0 seconds", s)
}
