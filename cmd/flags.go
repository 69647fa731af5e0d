package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/marcus/editable/internal/config"
	"github.com/marcus/editable/pkg/editable"
)

// Mode sets are parsed straight from the command line.
var (
	_ pflag.Value = (*editable.Activation)(nil)
	_ pflag.Value = (*editable.Deactivation)(nil)
)

// modeFlags holds the session overrides shared by commands that build
// fields.
type modeFlags struct {
	activation   editable.Activation
	deactivation editable.Deactivation
	selectAll    bool
}

func (f *modeFlags) register(fs *pflag.FlagSet) {
	fs.Var(&f.activation, "activation", `gestures that start editing: click, dblclick, enter-key or none`)
	fs.Var(&f.deactivation, "deactivation", `gestures that end editing: blur, escape-key, enter-key, modifier+enter-key or none`)
	fs.BoolVar(&f.selectAll, "select-all", false, "select the whole value when the input opens")
}

// overrides returns pointers only for flags set on the command line, so
// config file values survive otherwise.
func (f *modeFlags) overrides(fs *pflag.FlagSet) (*editable.Activation, *editable.Deactivation) {
	var a *editable.Activation
	var d *editable.Deactivation
	if fs.Changed("activation") {
		v := f.activation
		a = &v
	}
	if fs.Changed("deactivation") {
		v := f.deactivation
		d = &v
	}
	return a, d
}

// newLogger builds the JSON logger described by cfg. The terminal belongs
// to the UI, so without a log file logs are discarded.
func newLogger(cfg *config.Config, baseDir string) (*slog.Logger, func() error, error) {
	if cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}

	path := cfg.LogFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	return logger, f.Close, nil
}
