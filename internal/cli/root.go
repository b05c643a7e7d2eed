package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/timeline/internal/config"
	"github.com/existflow/timeline/internal/ledger"
	"github.com/existflow/timeline/internal/logger"
	"github.com/existflow/timeline/internal/seed"
	"github.com/existflow/timeline/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is set at build time
var Version = "dev"

var (
	seedFile   string
	sortMode   string
	logLevel   string
	logFile    string
	logConsole bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Timeline - a personal ledger of dated events",
	Long: `Timeline keeps a chronological ledger of life events with tags, people,
named durations and yearly anniversaries.

Run 'timeline' without arguments to launch the interactive TUI.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("seed") {
			loaded.SeedFile = seedFile
			configChanged = true
		}
		if cmd.Flags().Changed("sort") {
			if _, err := ledger.ParseSortMode(sortMode); err != nil {
				return err
			}
			loaded.SortMode = sortMode
			configChanged = true
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			loaded.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			loaded.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := loaded.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}
		cfg = loaded

		if err := logger.Init(cfg.Logger()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("Timeline started", logger.F("command", cmd.Name()), logger.F("version", Version))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession()
		if err != nil {
			return err
		}

		if !term.IsTerminal(int(os.Stdout.Fd())) {
			printEvents(cmd.OutOrStdout(), session.Display(ledger.Filter{}))
			return nil
		}

		logger.Info("Launching TUI")
		m := tui.NewModel(session, tui.Options{ConfirmDelete: cfg.ConfirmDelete})
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Timeline exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// openSession builds a session in the configured sort mode and loads the seed timeline into it
func openSession() (*ledger.Session, error) {
	session := ledger.NewSession(ledger.WithSortMode(cfg.Sort()))
	if err := seed.Populate(session, cfg.SeedFile); err != nil {
		logger.Error("Failed to load timeline", logger.F("error", err), logger.F("path", cfg.SeedFile))
		return nil, fmt.Errorf("failed to load timeline: %w", err)
	}
	return session, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&seedFile, "seed", "", "Timeline YAML file to load (default: built-in sample)")
	rootCmd.PersistentFlags().StringVar(&sortMode, "sort", "", "Upcoming sort mode (month-day, absolute)")

	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(upcomingCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(durationsCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}
