// Package cli wires configuration, logging and storage behind the smarttask command.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/tgienger/smarttask/internal/config"
	"github.com/tgienger/smarttask/internal/db"
	"github.com/tgienger/smarttask/internal/logging"
	"github.com/tgienger/smarttask/internal/tasks"
	"github.com/tgienger/smarttask/internal/ui"
)

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// NewRootCommand builds the command tree. Without a subcommand it starts the TUI.
func NewRootCommand(version string) *cobra.Command {
	var overrides config.Overrides

	root := &cobra.Command{
		Use:   "smarttask",
		Short: "SmartTask - a personal task tracker for the terminal",
		Long: `SmartTask keeps your tasks in a single JSON file and lets you add, edit,
filter and complete them from a terminal UI.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(overrides)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&overrides.DataFile, "data", "", "Task file (default $XDG_DATA_HOME/smarttask/tasks.json)")
	flags.StringVar(&overrides.ConfigFile, "config", "", "Config file (default $XDG_CONFIG_HOME/smarttask/config.toml)")
	flags.StringVar(&overrides.Theme, "theme", "", "Color theme: light or dark")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(listCmd(&overrides))
	root.AddCommand(pathCmd(&overrides))

	return root
}

// session holds what every command needs once configuration is resolved
type session struct {
	cfg      *config.Config
	logger   *log.Logger
	closeLog func() error
}

func (s *session) Close() error {
	return s.closeLog()
}

func openSession(o config.Overrides) (*session, error) {
	cfg, err := config.Load(o)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.Setup(cfg.LogFile, logging.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Timestamp: true,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", "source", cfg.Source, "data", cfg.DataFile)

	return &session{cfg: cfg, logger: logger, closeLog: closeLog}, nil
}

func (s *session) openManager() (*tasks.Manager, error) {
	return tasks.Open(s.cfg.DataFile, tasks.WithLogger(s.logger))
}

func runTUI(o config.Overrides) error {
	s, err := openSession(o)
	if err != nil {
		return err
	}
	defer s.Close()

	prefs, err := db.Open(s.cfg.SettingsDB)
	if err != nil {
		return fmt.Errorf("initializing settings database: %w", err)
	}
	defer prefs.Close()

	manager, err := s.openManager()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	app := ui.NewApp(manager, prefs, s.cfg.Theme)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	s.logger.Info("exiting", "tasks", manager.Len())
	return nil
}
