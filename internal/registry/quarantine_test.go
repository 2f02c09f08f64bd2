package registry

import (
	"os"
	"path/filepath"
	"testing"

	automatorerrors "github.com/nodeflowrun/automator/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestLoadQuarantineMissingFileIsEmpty(t *testing.T) {
	q, err := LoadQuarantine(filepath.Join(t.TempDir(), "absent.jsonl"))
	require.NoError(t, err)
	require.NoError(t, q.Check("a", "plugin.http.get", "v1", true))
}

func TestLoadQuarantineParsesEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quarantine.jsonl")
	content := "{\"actionRef\": \"plugin.http.get\", \"version\": \"v1\"}\n\n{\"actionRef\": \"plugin.llm.complete\", \"version\": \"v2\"}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	q, err := LoadQuarantine(path)
	require.NoError(t, err)

	err = q.Check("a", "plugin.http.get", "v1", true)
	require.Error(t, err)
	var policyErr *automatorerrors.PolicyError
	require.ErrorAs(t, err, &policyErr)
}

func TestLoadQuarantineDefaultsMissingVersionToV1(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quarantine.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"actionRef": "plugin.http.get"}`+"\n"), 0o644))

	q, err := LoadQuarantine(path)
	require.NoError(t, err)

	err = q.Check("a", "plugin.http.get", "v1", true)
	require.Error(t, err)
	var policyErr *automatorerrors.PolicyError
	require.ErrorAs(t, err, &policyErr)
}

func TestQuarantineIgnoredInExplore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quarantine.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"actionRef": "plugin.http.get", "version": "v1"}`+"\n"), 0o644))

	q, err := LoadQuarantine(path)
	require.NoError(t, err)

	require.NoError(t, q.Check("a", "plugin.http.get", "v1", false))
}

func TestQuarantineAllowsNonQuarantinedPair(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quarantine.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"actionRef": "plugin.http.get", "version": "v1"}`+"\n"), 0o644))

	q, err := LoadQuarantine(path)
	require.NoError(t, err)

	require.NoError(t, q.Check("a", "plugin.http.post", "v1", true))
}

func TestLoadQuarantineRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quarantine.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not json\n"), 0o644))

	_, err := LoadQuarantine(path)
	require.Error(t, err)
}
