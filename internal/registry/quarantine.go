package registry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	automatorerrors "github.com/nodeflowrun/automator/pkg/errors"
)

// Quarantine is a deny-list of (actionRef, schemaVersion) pairs forbidden
// in verify/prod modes (spec.md §4.4).
type Quarantine struct {
	entries map[key]struct{}
}

type quarantineEntry struct {
	ActionRef string `json:"actionRef"`
	Version   string `json:"version"`
}

// EmptyQuarantine returns a Quarantine with no entries, for runs that
// don't configure a quarantine file.
func EmptyQuarantine() *Quarantine {
	return &Quarantine{entries: make(map[key]struct{})}
}

// LoadQuarantine reads a newline-delimited JSON file of {actionRef,
// version} entries. Blank lines are skipped. An entry that omits version
// defaults to "v1", matching the reference loader's
// obj.get('version') or 'v1' (_examples/original_source/runner.py). A
// missing file is not an error — it is equivalent to an empty quarantine.
func LoadQuarantine(path string) (*Quarantine, error) {
	if path == "" {
		return EmptyQuarantine(), nil
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return EmptyQuarantine(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("registry: cannot open quarantine file %s: %w", path, err)
	}
	defer f.Close()

	q := EmptyQuarantine()
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e quarantineEntry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, fmt.Errorf("registry: malformed quarantine entry at line %d: %w", lineNum, err)
		}
		if e.Version == "" {
			e.Version = "v1"
		}
		q.entries[key{e.ActionRef, e.Version}] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("registry: error reading quarantine file %s: %w", path, err)
	}

	return q, nil
}

// Check fails with a PolicyError (exit code 4) if (actionRef, version) is
// quarantined and mode is strict (verify or prod). In explore, quarantine
// entries are ignored.
func (q *Quarantine) Check(nodeID, actionRef, version string, strict bool) error {
	if !strict {
		return nil
	}
	if _, quarantined := q.entries[key{actionRef, version}]; quarantined {
		return automatorerrors.NewPolicyError(nodeID, actionRef, version)
	}
	return nil
}
