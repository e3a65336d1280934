// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gosoup/internal/harvest"
	"github.com/pdiddy/gosoup/pkg/types"
)

// Configuration keys. Flags, GOSOUP_* environment variables and the
// config file all resolve through these.
const (
	keyPDFInputDir      = "pdf.input_dir"
	keyPDFOutputFile    = "pdf.output_file"
	keySegmentMinFont   = "segment.min_font_size"
	keySegmentMaxWords  = "segment.max_words"
	keyWebOutputFile    = "web.output_file"
	keyWebTimeout       = "web.timeout"
	keyWebDelay         = "web.delay"
	keyWebUserAgent     = "web.user_agent"
	keyWebSites         = "web.sites"
	keyDatasetIndexDir  = "dataset.index_dir"
	keyDatasetMaxResult = "dataset.max_results"
)

const (
	defaultInputDir      = "./go_books"
	defaultPDFOutputFile = "./scraped_go_data/go_books_dataset.jsonl"
	defaultWebOutputFile = "./scraped_go_data/go_dataset.jsonl"
	defaultIndexDir      = "./scraped_go_data/index"
	defaultTimeout       = 30 * time.Second
	defaultUserAgent     = "gosoup/0.1"
)

func setDefaults() {
	seg := types.DefaultSegmentConfig()

	viper.SetDefault(keyPDFInputDir, defaultInputDir)
	viper.SetDefault(keyPDFOutputFile, defaultPDFOutputFile)
	viper.SetDefault(keySegmentMinFont, seg.MinFontSize)
	viper.SetDefault(keySegmentMaxWords, seg.MaxWords)
	viper.SetDefault(keyWebOutputFile, defaultWebOutputFile)
	viper.SetDefault(keyWebTimeout, defaultTimeout)
	viper.SetDefault(keyWebDelay, time.Duration(0))
	viper.SetDefault(keyWebUserAgent, defaultUserAgent)
	viper.SetDefault(keyDatasetIndexDir, defaultIndexDir)
	viper.SetDefault(keyDatasetMaxResult, 20)
}

// bindEnv maps nested keys to GOSOUP_* variables, e.g. pdf.input_dir to
// GOSOUP_PDF_INPUT_DIR.
func bindEnv() {
	viper.SetEnvPrefix("GOSOUP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// bindFlags ties each named flag of cmd to its configuration key. With
// persistent set the flags are looked up among cmd's persistent flags.
func bindFlags(cmd *cobra.Command, persistent bool, flags map[string]string) {
	fs := cmd.Flags()
	if persistent {
		fs = cmd.PersistentFlags()
	}
	for flag, key := range flags {
		if err := viper.BindPFlag(key, fs.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

func segmentConfig() types.SegmentConfig {
	return types.SegmentConfig{
		MinFontSize: viper.GetFloat64(keySegmentMinFont),
		MaxWords:    viper.GetInt(keySegmentMaxWords),
	}
}

func textbookConfig() types.TextbookConfig {
	return types.TextbookConfig{
		Segment:    segmentConfig(),
		InputDir:   viper.GetString(keyPDFInputDir),
		OutputFile: viper.GetString(keyPDFOutputFile),
	}
}

// harvestConfig resolves the web stage settings. names, when non-empty,
// selects sites by name; a base URL configured under web.sites still
// applies to a selected site.
func harvestConfig(names []string) (types.HarvestConfig, error) {
	var configured []types.SiteConfig
	if err := viper.UnmarshalKey(keyWebSites, &configured); err != nil {
		return types.HarvestConfig{}, fmt.Errorf("reading %s: %w", keyWebSites, err)
	}
	if len(configured) == 0 {
		configured = harvest.DefaultSites()
	}

	sites := configured
	if len(names) > 0 {
		sites = make([]types.SiteConfig, 0, len(names))
		for _, name := range names {
			site := types.SiteConfig{Name: name}
			for _, c := range configured {
				if c.Name == name {
					site = c
					break
				}
			}
			sites = append(sites, site)
		}
	}

	return types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration(keyWebTimeout),
			UserAgent: viper.GetString(keyWebUserAgent),
		},
		Sites:      sites,
		LinkDelay:  viper.GetDuration(keyWebDelay),
		OutputFile: viper.GetString(keyWebOutputFile),
	}, nil
}

func datasetConfig() types.DatasetConfig {
	return types.DatasetConfig{
		IndexDir:   viper.GetString(keyDatasetIndexDir),
		MaxResults: viper.GetInt(keyDatasetMaxResult),
	}
}
