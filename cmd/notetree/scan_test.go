package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/booxkit/pkg/notetree"
)

func TestScanCommand(t *testing.T) {
	tests := []struct {
		name        string
		format      string
		header      bool
		iterations  int
		wantJSON    bool
		wantContain []string
	}{
		{
			name:   "text with header",
			format: "text",
			header: true,
			wantContain: []string{
				"Header", "0x0a18f40a", "Inbox",
				"Markers (12)", "0x3a", "0xd0", `{"scene":"active"}`,
				"Stopped at offset",
			},
		},
		{
			name:        "iterations",
			format:      "text",
			header:      true,
			iterations:  2,
			wantContain: []string{"Markers (2)", "0x40"},
		},
		{
			name:        "no header",
			format:      "text",
			iterations:  1,
			wantContain: []string{"Markers (1)", "0x0a", "Sub:", "0xf4"},
		},
		{
			name:        "json",
			format:      "json",
			header:      true,
			wantJSON:    true,
			wantContain: []string{`"marker": "0x3a"`, `"name": "Inbox"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			outFormat = tt.format
			scanHeader = tt.header
			scanIterations = tt.iterations

			args := []string{twoRecordFile(t)}
			output, err := captureOutput(t, func() error {
				return runScan(args)
			})
			require.NoError(t, err)

			if tt.wantJSON {
				assertJSON(t, output)
			}
			assertContains(t, output, tt.wantContain)
		})
	}
}

func TestScanCommand_JSONShape(t *testing.T) {
	resetFlags()
	jsonOut = true

	args := []string{twoRecordFile(t)}
	output, err := captureOutput(t, func() error {
		return runScan(args)
	})
	require.NoError(t, err)

	var view scanView
	require.NoError(t, json.Unmarshal([]byte(output), &view))
	require.NotNil(t, view.Header)
	require.Equal(t, "6f1c2a3b-4d5e-4f60-8a9b-0c1d2e3f4a5b", view.Header.ID)
	require.Len(t, view.Entries, 12)
	for _, e := range view.Entries {
		require.True(t, e.Known, e.Marker)
		require.Nil(t, e.Error)
	}
	require.Equal(t, strings.Repeat("00", 11), view.Entries[1].Raw)
}

func TestScanCommand_UnknownMarkers(t *testing.T) {
	resetFlags()
	scanHeader = false
	path := writeNoteTree(t, []byte{0xee, 0x18, 1, 2, 3, 4, 0x40, 1})

	output, err := captureOutput(t, func() error {
		return runScan([]string{path})
	})
	require.NoError(t, err)
	assertContains(t, output, []string{
		"0xee unknown", "01 02 03 04 (4 bytes)", "1 unknown marker(s)", "truncated",
	})
}

func TestScanCommand_BadHeader(t *testing.T) {
	resetFlags()
	path := writeNoteTree(t, []byte("not a note tree"))

	_, err := captureOutput(t, func() error {
		return runScan([]string{path})
	})
	require.ErrorIs(t, err, notetree.ErrGrammarViolation)
}
