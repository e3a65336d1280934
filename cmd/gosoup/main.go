// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the gosoup CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the gosoup CLI.
var rootCmd = &cobra.Command{
	Use:   "gosoup",
	Short: "Build a Go prompt/completion dataset from textbooks and docs",
	Long: `gosoup builds a prompt/completion dataset for Go programming material.

The pdf stage segments PDF textbooks on their headings, the web stage
harvests documentation sites, and both append JSON Lines records to an
output file. The dataset command indexes those files for search,
duplicate reporting and export.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./gosoup.yaml or ~/.config/gosoup/gosoup.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("gosoup")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "gosoup"))
		}
	}

	setDefaults()
	bindEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
