// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gosoup/internal/dataset"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Index, search and export the generated dataset files",
	Long: `Dataset manages a local SQLite index over the JSONL files written by the
pdf and web commands. Use subcommands to index files, search records,
report duplicates or export.`,
}

// --- store subcommand ---

var datasetStoreCmd = &cobra.Command{
	Use:   "store [files...]",
	Short: "Index JSONL dataset files",
	Long: `Store reads JSONL dataset files into the index. Without arguments it
indexes the configured pdf and web output files. Files unchanged since the
last run are skipped; changed files replace their previous records.`,
	RunE: runDatasetStore,
}

func runDatasetStore(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = existingFiles(viper.GetString(keyPDFOutputFile), viper.GetString(keyWebOutputFile))
		if len(paths) == 0 {
			return fmt.Errorf("no dataset files found: run pdf or web first, or pass files")
		}
	}

	store, err := dataset.NewStore(datasetConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), paths, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed indexing", summary.Failed)
	}
	return nil
}

func existingFiles(paths ...string) []string {
	var out []string
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			out = append(out, p)
		}
	}
	return out
}

// --- search subcommand ---

var datasetSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed records",
	Long: `Search finds records whose prompt or completion contains the query,
ignoring case. Results are ordered by source file and line.`,
	RunE: runDatasetSearch,
}

func runDatasetSearch(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.Query == "" && opts.Source == "" {
		return fmt.Errorf("query or filter required: provide a search query or --source")
	}

	store, err := dataset.NewStore(datasetConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Search(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(entries, jsonOutput)
}

func formatSearchOutput(entries []dataset.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-6s  %-30s  %s\n", "Source", "Line", "Prompt", "Completion")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-24s  %-6d  %-30s  %s\n",
			truncate(e.Source, 24), e.Line, truncate(e.Prompt, 30), truncate(e.Completion, 40))
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(entries))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- stats subcommand ---

var datasetStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report record counts and duplicates",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := dataset.NewStore(datasetConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}

		for _, src := range st.Sources {
			fmt.Printf("%-30s %6d  %s\n", src.Name, src.Records, src.Path)
		}
		fmt.Printf("\ntotal: %d, distinct: %d, duplicates: %d\n", st.Total, st.Distinct, st.Duplicates)
		return nil
	},
}

// --- export subcommand ---

var datasetExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export indexed records to YAML or JSON",
	Long: `Export writes the indexed records (or a filtered subset) to
<index-dir>/export.yaml or export.json, or to --out. Supports the same
filters as search.`,
	RunE: runDatasetExport,
}

func runDatasetExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	store, err := dataset.NewStore(datasetConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts, out)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts, out)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Println("Exported to", path)
	return nil
}

// --- shared helpers ---

func queryOptsFromFlags(cmd *cobra.Command, args []string) dataset.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	return dataset.QueryOptions{
		Query:      queryText,
		Source:     source,
		MaxResults: limit,
	}
}

func init() {
	datasetCmd.PersistentFlags().String("index-dir", defaultIndexDir, "directory holding dataset.db and exports")
	datasetCmd.PersistentFlags().Int("max-results", 20, "default maximum number of search results")
	bindFlags(datasetCmd, true, map[string]string{
		"index-dir":   keyDatasetIndexDir,
		"max-results": keyDatasetMaxResult,
	})

	datasetSearchCmd.Flags().String("query", "", "substring to search for")
	datasetSearchCmd.Flags().String("source", "", "filter by source file name")
	datasetSearchCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	datasetSearchCmd.Flags().Bool("json", false, "output results as JSON")

	datasetStatsCmd.Flags().Bool("json", false, "output stats as JSON")

	datasetExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	datasetExportCmd.Flags().String("out", "", "output file (default <index-dir>/export.<format>)")
	datasetExportCmd.Flags().String("query", "", "substring filter for partial export")
	datasetExportCmd.Flags().String("source", "", "filter by source file name for partial export")

	datasetCmd.AddCommand(datasetStoreCmd)
	datasetCmd.AddCommand(datasetSearchCmd)
	datasetCmd.AddCommand(datasetStatsCmd)
	datasetCmd.AddCommand(datasetExportCmd)

	rootCmd.AddCommand(datasetCmd)
}
