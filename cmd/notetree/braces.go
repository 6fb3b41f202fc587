package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/booxkit/internal/hexview"
	"github.com/joshuapare/booxkit/pkg/notetree"
)

var (
	bracesMax        int
	bracesQuoteAware bool
	bracesPretty     bool
)

func init() {
	rootCmd.AddCommand(newBracesCmd())
}

func newBracesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "braces <file>",
		Short: "Walk raw bytes for brace-balanced JSON objects",
		Long: `The braces command ignores the record grammar and repeatedly extracts the
next brace-balanced JSON object. For each object it prints the bytes in front
of it (the prelude) in hex and as characters, the object length, and the
length the prelude bytes 1 and 2 would declare.

By default every brace counts, including braces inside JSON strings. Use
--quote-aware to skip braces inside string literals.

Example:
  notetree braces note_tree --max 10
  notetree braces note_tree --quote-aware --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBraces(args)
		},
	}
	cmd.Flags().IntVar(&bracesMax, "max", notetree.DefaultMaxObjects, "Maximum number of objects to extract")
	cmd.Flags().BoolVar(&bracesQuoteAware, "quote-aware", false, "Ignore braces inside JSON strings")
	cmd.Flags().BoolVar(&bracesPretty, "pretty", false, "Indent extracted objects")
	return cmd
}

type objectView struct {
	Offset         int    `json:"offset"                    yaml:"offset"`
	PreludeOffset  int    `json:"prelude_offset"            yaml:"prelude_offset"`
	Prelude        string `json:"prelude"                   yaml:"prelude"`
	PreludeChars   string `json:"prelude_chars"             yaml:"prelude_chars"`
	Length         int    `json:"length"                    yaml:"length"`
	DeclaredLength *int   `json:"declared_length,omitempty" yaml:"declared_length,omitempty"`
	Text           string `json:"text"                      yaml:"text"`
}

type bracesView struct {
	File    string       `json:"file"            yaml:"file"`
	Mode    string       `json:"mode"            yaml:"mode"`
	Objects []objectView `json:"objects"         yaml:"objects"`
	Error   *errorView   `json:"error,omitempty" yaml:"error,omitempty"`
}

func runBraces(args []string) error {
	path := args[0]

	printVerbose("Opening note tree: %s\n", path)

	f, err := notetree.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	opts := notetree.BraceOptions{Mode: notetree.BraceNaive, Max: bracesMax}
	if bracesQuoteAware {
		opts.Mode = notetree.BraceQuoteAware
	}
	objs, walkErr := notetree.ExtractObjects(f.Cursor(), opts)

	view := bracesView{File: path, Mode: opts.Mode.String(), Error: newErrorView(walkErr)}
	for _, o := range objs {
		ov := objectView{
			Offset:        o.Offset,
			PreludeOffset: o.Prelude.Offset,
			Prelude:       hex.EncodeToString(o.Prelude.Bytes),
			PreludeChars:  hexview.Chars(o.Prelude.Bytes),
			Length:        len(o.Text),
			Text:          blobText(o.Text, bracesPretty),
		}
		if n, ok := o.DeclaredLength(); ok {
			ov.DeclaredLength = &n
		}
		view.Objects = append(view.Objects, ov)
	}

	if structured() {
		return printStructured(view)
	}
	printBraces(view, objs)
	return nil
}

func printBraces(v bracesView, objs []notetree.JSONObject) {
	for i, o := range v.Objects {
		printInfo("%s\n", render(titleStyle, fmt.Sprintf("Object %d @ 0x%x", i, o.Offset)))
		printInfo("  %s %s\n", label("Prelude"), hexview.Hex(objs[i].Prelude.Bytes, byteStyler()))
		printInfo("  %s %s\n", label("Chars"), o.PreludeChars)
		printInfo("  %s %d\n", label("Length"), o.Length)
		if o.DeclaredLength != nil {
			printInfo("  %s %d\n", label("Declared"), *o.DeclaredLength)
		}
		printVerbose("  %s %s\n", label("JSON"), indentBlock(o.Text))
		printInfo("\n")
	}
	printInfo("%d objects (%s braces)\n", len(v.Objects), v.Mode)
	if v.Error != nil {
		printInfo("%s\n", render(failureStyle, v.Error.Message))
	}
}
