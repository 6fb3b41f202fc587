package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	jsonOut   bool
	noColor   bool
	outFormat string
)

// logger receives library diagnostics. Reconfigured from flags before each command.
var logger = newLogger(os.Stderr, false)

var rootCmd = &cobra.Command{
	Use:   "notetree",
	Short: "Inspect note tree containers from note backups",
	Long: `notetree decodes the note tree container found in note backups.
It lists records with the strict decoder, scans markers with the exploratory
tag scanner, and walks raw bytes for brace-balanced JSON objects.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(os.Stderr, verbose)
		_, err := outputFormat()
		return err
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format (same as --format json)")
	rootCmd.PersistentFlags().
		StringVar(&outFormat, "format", "text", "Output format: text, json, yaml or cbor")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// outputFormat resolves --json and --format into one of text, json, yaml, cbor.
func outputFormat() (string, error) {
	if jsonOut {
		return "json", nil
	}
	switch f := strings.ToLower(outFormat); f {
	case "", "text":
		return "text", nil
	case "json", "yaml", "cbor":
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json, yaml or cbor)", outFormat)
	}
}

// structured reports whether output goes through printStructured.
func structured() bool {
	f, err := outputFormat()
	return err == nil && f != "text"
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("notetree: CBOR encoder initialization failed: " + err.Error())
	}
}

// printStructured writes v in the selected machine-readable format.
func printStructured(v interface{}) error {
	f, err := outputFormat()
	if err != nil {
		return err
	}
	switch f {
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "cbor":
		b, err := cborEncMode.Marshal(v)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(b)
		return err
	default:
		return printJSON(v)
	}
}
