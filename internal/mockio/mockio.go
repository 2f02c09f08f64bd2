// Package mockio provides the deterministic mock-IO overlay handlers for
// a fixed set of externally-effecting actions (spec.md §4.4): HTTP
// get/post, file write, jq transform, LLM completion, and a SQLite
// action family. Registered as mock overlays so the real registry.Lookup
// still prefers a genuine handler unless mock-IO is active.
package mockio

import (
	"strings"

	"github.com/nodeflowrun/automator/internal/handler"
	"github.com/nodeflowrun/automator/internal/ir"
	"github.com/nodeflowrun/automator/internal/registry"
)

func init() {
	registry.RegisterMock("plugin.http.get", "v1", handler.Func(httpGet))
	registry.RegisterMock("plugin.http.post", "v1", handler.Func(httpPost))
	registry.RegisterMock("plugin.files.write", "v1", handler.Func(filesWrite))
	registry.RegisterMock("plugin.transform.jq", "v1", handler.Func(transformJQ))
	registry.RegisterMock("plugin.llm.complete", "v1", handler.Func(llmComplete))
	registry.RegisterMock("plugin.sqlite.create_db", "v1", handler.Func(sqliteCreateDB))
	registry.RegisterMock("plugin.sqlite.create_table", "v1", handler.Func(sqliteCreateTable))
	registry.RegisterMock("plugin.sqlite.insert_row", "v1", handler.Func(sqliteInsertRow))
	registry.RegisterMock("plugin.sqlite.query", "v1", handler.Func(sqliteQuery))
}

func mapping(entries ...ir.Entry) ir.Value {
	return ir.Mapping(entries)
}

func httpGet(node ir.Node, input ir.Value) (ir.Value, error) {
	titles := ir.Sequence([]ir.Value{
		mapping(ir.Entry{Key: "title", Value: ir.String("Mock Title 1")}),
		mapping(ir.Entry{Key: "title", Value: ir.String("Mock Title 2")}),
	})
	jsonObj := mapping(ir.Entry{Key: "query", Value: mapping(ir.Entry{Key: "search", Value: titles})})
	return mapping(
		ir.Entry{Key: "status", Value: ir.Number(200)},
		ir.Entry{Key: "body", Value: jsonObj},
		ir.Entry{Key: "json", Value: jsonObj},
	), nil
}

func httpPost(node ir.Node, input ir.Value) (ir.Value, error) {
	body := mapping(ir.Entry{Key: "mock", Value: ir.Bool(true)})
	return mapping(
		ir.Entry{Key: "status", Value: ir.Number(200)},
		ir.Entry{Key: "body", Value: body},
	), nil
}

func filesWrite(node ir.Node, input ir.Value) (ir.Value, error) {
	bytesWritten := 0
	if content, ok := input.Field("content"); ok {
		if s, ok := content.Str(); ok {
			bytesWritten = len(s)
		}
	}
	return mapping(ir.Entry{Key: "bytesWritten", Value: ir.Number(float64(bytesWritten))}), nil
}

func transformJQ(node ir.Node, input ir.Value) (ir.Value, error) {
	data, ok := input.Field("data")
	if !ok {
		data = ir.Sequence(nil)
	}
	return mapping(ir.Entry{Key: "result", Value: data}), nil
}

func llmComplete(node ir.Node, input ir.Value) (ir.Value, error) {
	text := "Mock summary"
	if prompt, ok := input.Field("prompt"); ok {
		if s, ok := prompt.Str(); ok {
			text = "Mock: " + truncate(s, 20)
		}
	}
	return mapping(ir.Entry{Key: "text", Value: ir.String(text)}), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func stringField(input ir.Value, key, fallback string) string {
	if field, ok := input.Field(key); ok {
		if s, ok := field.Str(); ok && s != "" {
			return s
		}
	}
	return fallback
}

func numberField(input ir.Value, key string) (int64, bool) {
	field, ok := input.Field(key)
	if !ok {
		return 0, false
	}
	n, ok := field.Number()
	if !ok {
		return 0, false
	}
	return int64(n), true
}

func identifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "mock_table"
	}
	return b.String()
}
