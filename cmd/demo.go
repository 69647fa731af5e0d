package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/marcus/editable/internal/demo"
	"github.com/marcus/editable/internal/store"
)

var (
	demoModes     modeFlags
	demoFailSaves bool
	demoMdStyle   string
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Open an interactive page of click-to-edit fields",
	Long: `Open a page with a single-line title, a multi-line markdown message with
explicit Edit/Save/Cancel buttons, and a locked field.

Click or press enter on a value to edit it. Enter saves single-line
fields, alt+enter saves the message, esc cancels, and moving focus away
saves. Press f2 to make saves fail and watch fields stay in edit mode.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("demo needs an interactive terminal")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, closeLog, err := newLogger(cfg, getBaseDir())
		if err != nil {
			return err
		}
		defer closeLog()
		slog.SetDefault(logger)

		st, err := store.Open(cfg.DatabasePath(getBaseDir()))
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		act, deact := demoModes.overrides(cmd.Flags())
		m := demo.New(demo.Options{
			Store:         st,
			Config:        cfg,
			Activation:    act,
			Deactivation:  deact,
			SelectAll:     demoModes.selectAll,
			FailSaves:     demoFailSaves,
			MarkdownStyle: demoMdStyle,
			Logger:        logger,
			Context:       ctx,
		})

		p := tea.NewProgram(m,
			tea.WithAltScreen(),
			tea.WithMouseAllMotion(),
			tea.WithContext(ctx),
		)
		m.SetSender(p)

		logger.Info("demo started", "version", version, "db", cfg.DatabasePath(getBaseDir()))
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("run demo: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoModes.register(demoCmd.Flags())
	demoCmd.Flags().BoolVar(&demoFailSaves, "fail-saves", false, "start with every save failing")
	demoCmd.Flags().StringVar(&demoMdStyle, "markdown-style", "dark", "glamour style for the message preview")
}

// contextOrBackground is used by commands that may run without cobra's
// ExecuteContext.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
