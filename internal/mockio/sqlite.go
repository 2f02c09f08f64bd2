package mockio

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/nodeflowrun/automator/internal/ir"

	_ "modernc.org/sqlite"
)

// sqliteDB is a single shared in-memory database for the lifetime of the
// process, exercising a real SQL round-trip for the sqlite mock family
// instead of a hand-rolled fixture map, while staying fully deterministic
// and side-effect-free outside this temporary database.
var (
	sqliteOnce sync.Once
	sqliteDB   *sql.DB
	sqliteErr  error
)

func db() (*sql.DB, error) {
	sqliteOnce.Do(func() {
		sqliteDB, sqliteErr = sql.Open("sqlite", "file::memory:?cache=shared")
	})
	return sqliteDB, sqliteErr
}

func sqliteCreateDB(node ir.Node, input ir.Value) (ir.Value, error) {
	path := stringField(input, "path", "/tmp/mock.sqlite")
	if _, err := db(); err != nil {
		return ir.Value{}, fmt.Errorf("mockio: cannot open in-memory sqlite: %w", err)
	}
	return mapping(
		ir.Entry{Key: "status", Value: ir.String("ok")},
		ir.Entry{Key: "path", Value: ir.String(path)},
	), nil
}

func sqliteCreateTable(node ir.Node, input ir.Value) (ir.Value, error) {
	table := identifier(stringField(input, "table", "mock_table"))

	conn, err := db()
	if err != nil {
		return ir.Value{}, fmt.Errorf("mockio: cannot open in-memory sqlite: %w", err)
	}

	columns := tableColumns(input)
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, columns)
	if _, err := conn.Exec(stmt); err != nil {
		return ir.Value{}, fmt.Errorf("mockio: create table %s: %w", table, err)
	}

	return mapping(
		ir.Entry{Key: "status", Value: ir.String("ok")},
		ir.Entry{Key: "table", Value: ir.String(table)},
	), nil
}

func tableColumns(input ir.Value) string {
	columns, ok := input.Field("columns")
	if !ok {
		return "id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT"
	}
	items, ok := columns.Items()
	if !ok || len(items) == 0 {
		return "id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT"
	}
	defs := make([]string, 0, len(items)+1)
	defs = append(defs, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	for _, item := range items {
		if s, ok := item.Str(); ok {
			defs = append(defs, identifier(s)+" TEXT")
		}
	}
	return joinComma(defs)
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

func sqliteInsertRow(node ir.Node, input ir.Value) (ir.Value, error) {
	table := identifier(stringField(input, "table", "mock_table"))

	conn, err := db()
	if err != nil {
		return ir.Value{}, fmt.Errorf("mockio: cannot open in-memory sqlite: %w", err)
	}

	name := stringField(input, "name", "mock")
	res, err := conn.Exec(fmt.Sprintf("INSERT INTO %s (name) VALUES (?)", table), name)
	if err != nil {
		return ir.Value{}, fmt.Errorf("mockio: insert into %s: %w", table, err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		rowID = 1
	}

	return mapping(
		ir.Entry{Key: "status", Value: ir.String("ok")},
		ir.Entry{Key: "rowId", Value: ir.Number(float64(rowID))},
	), nil
}

func sqliteQuery(node ir.Node, input ir.Value) (ir.Value, error) {
	table := identifier(stringField(input, "table", "mock_table"))

	conn, err := db()
	if err != nil {
		return ir.Value{}, fmt.Errorf("mockio: cannot open in-memory sqlite: %w", err)
	}

	rows, err := conn.Query(fmt.Sprintf("SELECT id, name FROM %s ORDER BY id", table))
	if err != nil {
		// The query failed, e.g. because the table was never created:
		// mirror the reference implementation's fixed two-row result
		// rather than erroring. An existing empty table yields no rows.
		return mapping(
			ir.Entry{Key: "status", Value: ir.String("ok")},
			ir.Entry{Key: "rows", Value: ir.Sequence([]ir.Value{
				mapping(ir.Entry{Key: "id", Value: ir.Number(1)}, ir.Entry{Key: "name", Value: ir.String("Alice")}),
				mapping(ir.Entry{Key: "id", Value: ir.Number(2)}, ir.Entry{Key: "name", Value: ir.String("Bob")}),
			})},
		), nil
	}
	defer rows.Close()

	var result []ir.Value
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return ir.Value{}, fmt.Errorf("mockio: scan row in %s: %w", table, err)
		}
		result = append(result, mapping(
			ir.Entry{Key: "id", Value: ir.Number(float64(id))},
			ir.Entry{Key: "name", Value: ir.String(name)},
		))
	}

	return mapping(
		ir.Entry{Key: "status", Value: ir.String("ok")},
		ir.Entry{Key: "rows", Value: ir.Sequence(result)},
	), nil
}
