// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ytap/internal/config"
	ytaperrors "ytap/internal/errors"
	"ytap/internal/log"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagVideo       bool
	flagNotify      string
	flagDebug       bool
	flagCount       int
	flagPicker      string
	flagPlayer      string
	flagAutoAdvance bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ytap [query]",
	Short: "Autoplaying terminal audio player",
	Long: `ytap searches for a track, plays it with mpv and keeps playing
whatever the site recommends next.

Queries may carry a result count, e.g. "lofi|5", or be a direct link.
While playing: Enter or m opens the menu, n/F6 skips, p/F4 goes back,
space/F5 pauses, Ctrl-K dumps state. SIGUSR1, SIGUSR2, SIGHUP and SIGINT
do the same as next, previous, pause and menu.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              playRun,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	_ = log.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, ytaperrors.Format(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagVideo, "video", false, "Also play video")
	rootCmd.PersistentFlags().StringVar(&flagNotify, "notify", "", `Notification command, e.g. "notify-send {message}"`)
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to the log file")
	rootCmd.PersistentFlags().IntVarP(&flagCount, "count", "n", 0, "Search results to offer (default from config: 3)")
	rootCmd.PersistentFlags().StringVar(&flagPicker, "picker", "", "Result picker: prompt | fzf")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Path to the mpv binary")
	rootCmd.PersistentFlags().BoolVarP(&flagAutoAdvance, "auto-advance", "a", false, "Skip ahead when a track overruns its duration")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	flags := cmd.Flags()
	if flags.Changed("video") {
		cfg.Video = flagVideo
	}
	if flagNotify != "" {
		cfg.Notify = flagNotify
	}
	if flagCount != 0 {
		cfg.SearchCount = flagCount
	}
	if flagPicker != "" {
		cfg.Picker = flagPicker
	}
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flags.Changed("auto-advance") {
		cfg.AutoAdvance = flagAutoAdvance
	}
	if flagDebug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logPath, err := config.LogPath()
	if err != nil {
		return err
	}
	return log.Setup(log.Options{
		Enabled: cfg.Debug || cfg.Log,
		Path:    logPath,
		Level:   cfg.LogLevel,
	})
}
