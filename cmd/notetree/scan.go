package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/booxkit/internal/hexview"
	"github.com/joshuapare/booxkit/pkg/notetree"
)

var (
	scanHeader     bool
	scanIterations int
)

func init() {
	rootCmd.AddCommand(newScanCmd())
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Scan markers without enforcing record order",
		Long: `The scan command reads a bounded number of markers and prints the payload
each one announces. Unknown markers are reported rather than rejected, so the
output is useful when the record layout drifts. Subsequent entries after an
unknown marker are likely misaligned.

Example:
  notetree scan note_tree --header
  notetree scan note_tree --iterations 40 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args)
		},
	}
	cmd.Flags().BoolVar(&scanHeader, "header", true, "Read the file header before the marker loop")
	cmd.Flags().IntVar(&scanIterations, "iterations", 0, "Number of markers to read (0 = default of 12)")
	return cmd
}

type headerView struct {
	Magic string `json:"magic" yaml:"magic"`
	ID    string `json:"id"    yaml:"id"`
	Block string `json:"block" yaml:"block"`
	Name  string `json:"name"  yaml:"name"`
}

type scanEntryView struct {
	Offset int        `json:"offset"           yaml:"offset"`
	Marker string     `json:"marker"           yaml:"marker"`
	Known  bool       `json:"known"            yaml:"known"`
	Sub    string     `json:"sub,omitempty"    yaml:"sub,omitempty"`
	ID     string     `json:"id,omitempty"     yaml:"id,omitempty"`
	Text   string     `json:"text,omitempty"   yaml:"text,omitempty"`
	Raw    string     `json:"raw,omitempty"    yaml:"raw,omitempty"`
	Length int        `json:"length,omitempty" yaml:"length,omitempty"`
	Error  *errorView `json:"error,omitempty"  yaml:"error,omitempty"`
}

type scanView struct {
	File    string          `json:"file"             yaml:"file"`
	Header  *headerView     `json:"header,omitempty" yaml:"header,omitempty"`
	Entries []scanEntryView `json:"entries"          yaml:"entries"`
	End     int             `json:"end"              yaml:"end"`
	Error   *errorView      `json:"error,omitempty"  yaml:"error,omitempty"`
}

func runScan(args []string) error {
	path := args[0]

	printVerbose("Opening note tree: %s\n", path)

	f, err := notetree.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	report, err := notetree.Scan(f.Cursor(), notetree.ScanOptions{
		Iterations: scanIterations,
		Header:     scanHeader,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("read header of %s: %w", path, err)
	}

	view := newScanView(path, report)
	if structured() {
		return printStructured(view)
	}
	printScan(view, report)
	return nil
}

func newScanView(path string, r *notetree.ScanReport) scanView {
	v := scanView{File: path, End: r.End, Error: newErrorView(r.Err)}
	if h := r.Header; h != nil {
		v.Header = &headerView{
			Magic: fmt.Sprintf("0x%08x", h.Magic),
			ID:    h.ID.String(),
			Block: hex.EncodeToString(h.Block[:]),
			Name:  h.Name,
		}
	}
	for _, e := range r.Entries {
		ev := scanEntryView{
			Offset: e.Offset,
			Marker: fmt.Sprintf("0x%02x", byte(e.Marker)),
			Known:  e.Known,
			Text:   e.Text,
			Raw:    hex.EncodeToString(e.Raw),
			Length: e.Length,
			Error:  newErrorView(e.Err),
		}
		if e.HasSub {
			ev.Sub = fmt.Sprintf("0x%02x", e.Sub)
		}
		if e.ID.Valid {
			ev.ID = e.ID.UUID.String()
		}
		v.Entries = append(v.Entries, ev)
	}
	return v
}

func printScan(v scanView, r *notetree.ScanReport) {
	if h := v.Header; h != nil {
		printInfo("%s\n", render(titleStyle, "Header"))
		printInfo("  %s %s\n", label("Magic"), h.Magic)
		printInfo("  %s %s\n", label("ID"), h.ID)
		printInfo("  %s %s\n", label("Name"), h.Name)
		printInfo("  %s %s\n", label("Block"), hexview.Hex(r.Header.Block[:], byteStyler()))
		printInfo("\n")
	}

	printInfo("%s\n", render(titleStyle, fmt.Sprintf("Markers (%d)", len(v.Entries))))
	for i, e := range v.Entries {
		marker := e.Marker
		if !e.Known {
			marker = render(unknownStyle, marker+" unknown")
		}
		printInfo("  0x%06x  %s\n", e.Offset, marker)
		if e.Sub != "" {
			printInfo("    %s %s\n", label("Sub"), e.Sub)
		}
		if e.ID != "" {
			printInfo("    %s %s\n", label("ID"), e.ID)
		}
		if raw := r.Entries[i].Raw; len(raw) > 0 {
			printInfo("    %s %s\n", label("Raw"), hexview.Hex(raw, byteStyler()))
			printVerbose("    %s %s\n", label("Chars"), hexview.Chars(raw))
		}
		if e.Text != "" {
			printInfo("    %s %s\n", label("Text"), e.Text)
		}
		if e.Length != 0 {
			printInfo("    %s %d\n", label("Length"), e.Length)
		}
		if e.Error != nil {
			printInfo("    %s\n", render(failureStyle, e.Error.Message))
		}
	}

	printInfo("\nStopped at offset %d", v.End)
	if v.Error != nil {
		printInfo(": %s", render(failureStyle, v.Error.Message))
	}
	printInfo("\n")
	if n := len(r.Unknown()); n > 0 {
		printInfo("%s\n", render(unknownStyle, fmt.Sprintf("%d unknown marker(s)", n)))
	}
}
