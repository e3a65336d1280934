// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gosoup/internal/jsonl"
	"github.com/pdiddy/gosoup/internal/layout"
	"github.com/pdiddy/gosoup/internal/textbook"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Segment PDF textbooks into prompt/completion records",
	Long: `Pdf reads every *.pdf file in the input directory, treats large short
lines as headings and the text under each heading as its completion, and
appends the records to the output file as JSON Lines.

A PDF that cannot be read is reported and skipped; the remaining files are
still processed.`,
	RunE: runPDF,
}

func init() {
	pdfCmd.Flags().String("input-dir", defaultInputDir, "directory scanned for *.pdf files")
	pdfCmd.Flags().String("output", defaultPDFOutputFile, "JSONL file records are appended to")
	pdfCmd.Flags().Float64("min-font-size", 13.0, "a heading's font size must exceed this")
	pdfCmd.Flags().Int("max-words", 15, "a heading must have fewer words than this")

	bindFlags(pdfCmd, false, map[string]string{
		"input-dir":     keyPDFInputDir,
		"output":        keyPDFOutputFile,
		"min-font-size": keySegmentMinFont,
		"max-words":     keySegmentMaxWords,
	})

	rootCmd.AddCommand(pdfCmd)
}

func runPDF(cmd *cobra.Command, args []string) error {
	cfg := textbookConfig()

	sink, err := jsonl.Open(cfg.OutputFile)
	if err != nil {
		return err
	}

	result, err := textbook.ProcessDir(layout.Reader{}, cfg, sink, os.Stdout)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %d entries to %s\n", sink.Count(), cfg.OutputFile)
	if result.HasFailures() {
		fmt.Fprintf(os.Stderr, "%d of %d document(s) failed\n", result.Failed, result.Total())
	}
	fmt.Println("Done.")
	return nil
}
