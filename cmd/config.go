package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/marcus/editable/internal/config"
	"github.com/marcus/editable/pkg/editable"
)

var (
	configModes modeFlags
	configReset bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change field settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show [field]",
	Short: "Print the project config, or one field's settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(getBaseDir())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if len(args) == 1 {
			return printYAML(cmd.OutOrStdout(), cfg.Field(args[0]))
		}
		return printYAML(cmd.OutOrStdout(), cfg)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <field>",
	Short: "Store session settings for a field",
	Long: `Store session settings for one field in .editable/config.json.

Only the flags given change; the rest of the field's settings are kept.
--reset clears the field before applying the flags.

Examples:
  editable config set title --activation dblclick
  editable config set message --deactivation escape-key,modifier+enter-key
  editable config set locked --disabled=false`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := cmd.Flags()
		if !configReset && !anyFieldFlag(fs) {
			return fmt.Errorf("nothing to set for %q", args[0])
		}

		fc, err := config.UpdateField(getBaseDir(), args[0], func(c *editable.Config) {
			if configReset {
				*c = editable.Config{}
			}
			applyFieldFlags(fs, &configModes, c)
		})
		if err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		return printYAML(cmd.OutOrStdout(), fc)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd)

	fs := configSetCmd.Flags()
	configModes.register(fs)
	fs.Bool("disabled", false, "ignore activation gestures")
	fs.Bool("default-editing", false, "open the field in edit mode")
	fs.BoolVar(&configReset, "reset", false, "clear the field's settings first")
}

var fieldFlags = []string{"activation", "deactivation", "select-all", "disabled", "default-editing"}

func anyFieldFlag(fs *pflag.FlagSet) bool {
	for _, name := range fieldFlags {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

// applyFieldFlags copies the flags set on the command line into c.
func applyFieldFlags(fs *pflag.FlagSet, mf *modeFlags, c *editable.Config) {
	a, d := mf.overrides(fs)
	if a != nil {
		c.Activation = a
	}
	if d != nil {
		c.Deactivation = d
	}
	if fs.Changed("select-all") {
		c.SelectAllOnFocus = mf.selectAll
	}
	if fs.Changed("disabled") {
		c.Disabled, _ = fs.GetBool("disabled")
	}
	if fs.Changed("default-editing") {
		c.DefaultEditing, _ = fs.GetBool("default-editing")
	}
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
