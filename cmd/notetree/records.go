package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/joshuapare/booxkit/pkg/notetree"
)

var (
	recordsResync bool
	recordsLimit  int
	recordsPretty bool
)

func init() {
	rootCmd.AddCommand(newRecordsCmd())
}

func newRecordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records <file>",
		Short: "Decode every record with the strict grammar",
		Long: `The records command decodes a note tree file record by record and
prints the identifier, name and scene blobs of each one. Decoding stops at the
first grammar failure unless --resync is given, in which case the decoder skips
to the next plausible record start and carries on.

Example:
  notetree records note_tree
  notetree records note_tree --pretty
  notetree records note_tree --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecords(args)
		},
	}
	cmd.Flags().BoolVar(&recordsResync, "resync", false, "Skip past broken records instead of stopping")
	cmd.Flags().IntVar(&recordsLimit, "limit", 0, "Stop after this many records (0 = all)")
	cmd.Flags().BoolVar(&recordsPretty, "pretty", false, "Indent JSON blobs")
	return cmd
}

type recordsReport struct {
	File    string       `json:"file"             yaml:"file"`
	Size    int          `json:"size"             yaml:"size"`
	Decoded int          `json:"decoded_bytes"    yaml:"decoded_bytes"`
	Records []recordView `json:"records"          yaml:"records"`
	Errors  []*errorView `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func runRecords(args []string) error {
	path := args[0]

	printVerbose("Opening note tree: %s\n", path)

	f, err := notetree.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := f.Decoder(&notetree.Options{Logger: logger})
	report := recordsReport{File: path, Size: f.Size()}
	var firstErr error

decode:
	for {
		for dec.Next() {
			report.Records = append(report.Records, newRecordView(dec.Record(), recordsPretty))
			if recordsLimit > 0 && len(report.Records) >= recordsLimit {
				break decode
			}
		}
		err := dec.Err()
		if err == nil {
			break
		}
		if firstErr == nil {
			firstErr = err
		}
		report.Errors = append(report.Errors, newErrorView(err))
		if !recordsResync || !dec.Resync() {
			break
		}
	}
	report.Decoded = dec.Offset()

	if structured() {
		if err := printStructured(report); err != nil {
			return err
		}
	} else {
		printRecords(report)
	}

	if firstErr != nil && !recordsResync {
		return fmt.Errorf("decode %s: %w", path, firstErr)
	}
	return nil
}

func printRecords(report recordsReport) {
	for i, r := range report.Records {
		printInfo("%s\n", render(titleStyle,
			fmt.Sprintf("Record %d @ 0x%x (%s)", i, r.Offset, humanize.Bytes(uint64(r.Length)))))
		printInfo("  %s %s\n", label("ID"), r.ID)
		if r.SecondaryID != "" {
			printInfo("  %s %s\n", label("Secondary"), r.SecondaryID)
		}
		printInfo("  %s %s\n", label("Name"), r.Name)
		printInfo("  %s %s\n", label("Active"), indentBlock(r.ActiveScene))
		for j, s := range r.Scenes {
			printInfo("  %s %s\n", label(fmt.Sprintf("Scene %d", j+1)), indentBlock(s))
		}
		printInfo("  %s %s\n", label("Blob 0x78"), indentBlock(r.Blob78))
		printInfo("  %s %s\n", label("Blob 0xaa"), indentBlock(r.BlobAA))
		printInfo("  %s %s\n", label("Text 0xc2"), r.TextC2)
		printInfo("  %s %s\n", label("Field 0xd0"), r.D0.Extension)
		if r.TrailerSuffix != "" {
			printInfo("  %s %s\n", label("Suffix"), r.TrailerSuffix)
		}
		printVerbose("  %s %s\n", label("Block"), r.Block)
		printVerbose("  %s %s\n", label("Config 0x40"), r.Config40)
		printVerbose("  %s %s\n", label("Raw 0x78"), r.Raw78)
		printVerbose("  %s %s %s\n", label("Raw 0xb5/bd"), r.RawB5, r.RawBD)
		printVerbose("  %s %s %s\n", label("D0 head/tail"), r.D0.Head, r.D0.Tail)
		printInfo("\n")
	}

	for _, e := range report.Errors {
		printInfo("%s\n", render(failureStyle, fmt.Sprintf("Decode failed at offset %d: %s", e.Offset, e.Message)))
		if e.Field != "" {
			printVerbose("  %s %s\n", label("Field"), e.Field)
		}
	}

	printInfo("%d records, %s of %s decoded\n",
		len(report.Records), humanize.Bytes(uint64(report.Decoded)), humanize.Bytes(uint64(report.Size)))
}

func label(name string) string {
	return render(labelStyle, fmt.Sprintf("%-13s", name+":"))
}

// indentBlock aligns continuation lines of a multi-line value under the first.
func indentBlock(s string) string {
	return strings.ReplaceAll(s, "\n", "\n"+strings.Repeat(" ", 16))
}
