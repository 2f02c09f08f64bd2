package mockio

import (
	"testing"

	"github.com/nodeflowrun/automator/internal/ir"
	"github.com/stretchr/testify/require"
)

func TestHTTPGetReturnsMockBody(t *testing.T) {
	out, err := httpGet(ir.Node{}, ir.Mapping(nil))
	require.NoError(t, err)
	status, _ := out.Field("status")
	n, _ := status.Number()
	require.Equal(t, 200.0, n)
}

func TestFilesWriteCountsBytes(t *testing.T) {
	input := ir.Mapping([]ir.Entry{{Key: "content", Value: ir.String("hello")}})
	out, err := filesWrite(ir.Node{}, input)
	require.NoError(t, err)
	bw, _ := out.Field("bytesWritten")
	n, _ := bw.Number()
	require.Equal(t, 5.0, n)
}

func TestTransformJQPassesThroughData(t *testing.T) {
	input := ir.Mapping([]ir.Entry{{Key: "data", Value: ir.Sequence([]ir.Value{ir.Number(1), ir.Number(2)})}})
	out, err := transformJQ(ir.Node{}, input)
	require.NoError(t, err)
	result, _ := out.Field("result")
	items, _ := result.Items()
	require.Len(t, items, 2)
}

func TestLLMCompleteTruncatesPrompt(t *testing.T) {
	input := ir.Mapping([]ir.Entry{{Key: "prompt", Value: ir.String("this is a very long prompt indeed")}})
	out, err := llmComplete(ir.Node{}, input)
	require.NoError(t, err)
	text, _ := out.Field("text")
	s, _ := text.Str()
	require.Equal(t, "Mock: this is a very long ", s)
}

func TestSQLiteRoundTrip(t *testing.T) {
	table := ir.Mapping([]ir.Entry{{Key: "table", Value: ir.String("round_trip_test")}})

	_, err := sqliteCreateTable(ir.Node{}, table)
	require.NoError(t, err)

	insertInput := ir.Mapping([]ir.Entry{
		{Key: "table", Value: ir.String("round_trip_test")},
		{Key: "name", Value: ir.String("Carol")},
	})
	out, err := sqliteInsertRow(ir.Node{}, insertInput)
	require.NoError(t, err)
	rowID, ok := out.Field("rowId")
	require.True(t, ok)
	_, ok = rowID.Number()
	require.True(t, ok)

	out, err = sqliteQuery(ir.Node{}, table)
	require.NoError(t, err)
	rows, ok := out.Field("rows")
	require.True(t, ok)
	items, ok := rows.Items()
	require.True(t, ok)
	require.GreaterOrEqual(t, len(items), 1)
}
