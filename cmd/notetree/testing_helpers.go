package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joshuapare/booxkit/internal/testutil"
)

// fixtureSpec returns a record whose lead-in doubles as the file header magic.
func fixtureSpec(name string) testutil.RecordSpec {
	return testutil.RecordSpec{
		LeadInOpaque: [2]byte{0xf4, 0x18},
		Name:         name,
		ActiveScene:  `{"scene":"active"}`,
		Scenes:       [4]string{`{"n":1}`, `{"n":2}`, `{"n":3}`, `{"n":4}`},
		Blob78:       `{"blob":78}`,
		BlobAA:       `{"blob":"aa"}`,
		TextC2:       "owner",
	}
}

// writeNoteTree writes data to a temporary note tree file and returns its path
func writeNoteTree(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "note_tree")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// twoRecordFile writes a valid file holding records "Inbox" and "Sketches"
func twoRecordFile(t *testing.T) string {
	t.Helper()
	return writeNoteTree(t, testutil.Concat(
		testutil.MustRecord(t, fixtureSpec("Inbox"), nil).Bytes,
		testutil.MustRecord(t, fixtureSpec("Sketches"), nil).Bytes,
	))
}

// resetFlags restores every flag to its default
func resetFlags() {
	verbose = false
	quiet = false
	jsonOut = false
	noColor = true
	outFormat = "text"
	recordsResync = false
	recordsLimit = 0
	recordsPretty = false
	scanHeader = true
	scanIterations = 0
	bracesMax = 100
	bracesQuoteAware = false
	bracesPretty = false
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Drain the pipe concurrently so large outputs cannot block the writer
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		defer close(done)
		_, _ = buf.ReadFrom(r)
	}()

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout
	<-done
	r.Close()

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
