package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout runs fn with os.Stdout redirected to a pipe and
// returns everything it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestEndToEndInitEnqueueListStatus(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "queuectl.db")

	out := captureStdout(t, func() {
		code := run([]string{"--db", dbPath, "init"})
		assert.Equal(t, 0, code)
	})
	assert.Contains(t, out, "initialized database")

	out = captureStdout(t, func() {
		code := run([]string{"--db", dbPath, "enqueue", `{"id":"job-1","command":"true","max_retries":2}`})
		assert.Equal(t, 0, code)
	})
	assert.Contains(t, out, "enqueued job job-1")

	out = captureStdout(t, func() {
		code := run([]string{"--db", dbPath, "enqueue", `{"id":"job-1","command":"true"}`})
		assert.Equal(t, 1, code)
	})
	_ = out // duplicate id error goes to stderr, nothing asserted on stdout here

	out = captureStdout(t, func() {
		code := run([]string{"--db", dbPath, "list"})
		assert.Equal(t, 0, code)
	})
	assert.Contains(t, out, "job-1")
	assert.Contains(t, out, "pending")

	out = captureStdout(t, func() {
		code := run([]string{"--db", dbPath, "status"})
		assert.Equal(t, 0, code)
	})
	assert.Contains(t, out, "pending")
}

func TestEnqueueRejectsMissingFields(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "queuectl.db")
	captureStdout(t, func() {
		require.Equal(t, 0, run([]string{"--db", dbPath, "init"}))
	})

	code := run([]string{"--db", dbPath, "enqueue", `{"command":"true"}`})
	assert.Equal(t, 1, code, "missing id must fail")

	code = run([]string{"--db", dbPath, "enqueue", `{"id":"x"}`})
	assert.Equal(t, 1, code, "missing command must fail")

	code = run([]string{"--db", dbPath, "enqueue", `{"id":"x","command":"true","max_retries":-1}`})
	assert.Equal(t, 1, code, "negative max_retries must fail")
}

func TestResolveNextRunAtRejectsNonRFC3339(t *testing.T) {
	bad := "not-a-timestamp"
	_, err := resolveNextRunAt(&bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "next_run_at")
}

func TestResolveNextRunAtNilIsNil(t *testing.T) {
	got, err := resolveNextRunAt(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveNextRunAtNormalizesToUTC(t *testing.T) {
	raw := "2026-01-02T03:04:05+02:00"
	got, err := resolveNextRunAt(&raw)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.UTC, got.Location())
}

func TestDLQListOmitsJobThatHasNotFailed(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "queuectl.db")
	captureStdout(t, func() {
		require.Equal(t, 0, run([]string{"--db", dbPath, "init"}))
	})
	captureStdout(t, func() {
		require.Equal(t, 0, run([]string{"--db", dbPath, "enqueue", `{"id":"doomed","command":"false","max_retries":0}`}))
	})

	out := captureStdout(t, func() {
		code := run([]string{"--db", dbPath, "dlq", "list"})
		assert.Equal(t, 0, code)
	})
	assert.NotContains(t, out, "doomed", "job has not failed yet, so it must not appear in the DLQ")
}
