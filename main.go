package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	outputDir    string
	debugMode    bool
	showBrowser  bool
	dumpTable    bool
	debugEnabled bool
)

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}

var rootCmd = &cobra.Command{
	Use:   "outage-schedule [settings-file]",
	Short: "Fetch tomorrow's power outage schedule for one address",
	Long: `Opens the provider's shutdowns page in headless Chrome, selects the configured address,
decodes tomorrow's hourly schedule and writes result.txt and result.json.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if debugMode {
			SetDebugMode(true)
		}

		// Missing .env is fine
		if err := godotenv.Load(); err != nil {
			debugLog("no .env loaded: %v", err)
		}

		required := len(args) > 0
		settingsFile := defaultSettingsPath
		if required {
			settingsFile = args[0]
		}

		settings, err := LoadSettings(settingsFile, required)
		if err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
		if outputDir != "" {
			settings.Output.Directory = outputDir
		}
		if showBrowser {
			settings.Browser.Headless = false
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		processor := NewScheduleProcessor(settings, NewChromePage)
		processor.SetDumpTable(dumpTable)

		if _, err := processor.Run(ctx); err != nil {
			log.Fatalf("Processing failed: %v", err)
		}
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <table.html>",
	Short: "Decode a saved schedule table and print the message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if debugMode {
			SetDebugMode(true)
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		schedule, err := DecodeTable(string(data))
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), FormatSchedule(schedule))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for result.txt and result.json")
	rootCmd.Flags().BoolVar(&showBrowser, "show-browser", false, "Run Chrome with a visible window")
	rootCmd.Flags().BoolVar(&dumpTable, "dump-table", false, "Also write the extracted table as Markdown")
	rootCmd.AddCommand(decodeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
