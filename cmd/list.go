package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/marcus/editable/internal/store"
	"github.com/marcus/editable/pkg/editable"
)

var (
	nameStyle = lipgloss.NewStyle().Bold(true).Foreground(editable.Primary)
	timeStyle = lipgloss.NewStyle().Foreground(editable.Muted)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print saved field values",
	Long: `Print the values saved by 'editable demo'.

--filter fuzzy-matches field names; --history prints every saved value of
one field, newest first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path := cfg.DatabasePath(getBaseDir())
		if _, err := os.Stat(path); os.IsNotExist(err) {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved fields")
			return nil
		}

		st, err := store.Open(path)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := contextOrBackground(cmd)
		width, _ := cmd.Flags().GetInt("width")

		if name, _ := cmd.Flags().GetString("history"); name != "" {
			limit, _ := cmd.Flags().GetInt("limit")
			fields, err := st.History(ctx, name, limit)
			if err != nil {
				return err
			}
			printFields(cmd.OutOrStdout(), fields, width)
			return nil
		}

		fields, err := st.List(ctx)
		if err != nil {
			return err
		}
		if filter, _ := cmd.Flags().GetString("filter"); filter != "" {
			fields = filterFields(fields, filter)
		}
		printFields(cmd.OutOrStdout(), fields, width)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "fuzzy match field names")
	listCmd.Flags().String("history", "", "print the save history of one field")
	listCmd.Flags().IntP("limit", "n", 0, "history entries to print (0 for all)")
	listCmd.Flags().Int("width", 60, "truncate values to this many cells")
}

// filterFields keeps fields whose name fuzzy-matches pattern, best match
// first.
func filterFields(fields []store.Field, pattern string) []store.Field {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	matches := fuzzy.Find(pattern, names)
	out := make([]store.Field, 0, len(matches))
	for _, m := range matches {
		out = append(out, fields[m.Index])
	}
	return out
}

func printFields(w io.Writer, fields []store.Field, width int) {
	if len(fields) == 0 {
		fmt.Fprintln(w, "No saved fields")
		return
	}
	for _, f := range fields {
		value := strings.ReplaceAll(f.Value, "\n", " ⏎ ")
		if width > 0 {
			value = ansi.Truncate(value, width, "…")
		}
		fmt.Fprintf(w, "%s  %s  %s\n",
			nameStyle.Render(f.Name),
			value,
			timeStyle.Render(f.UpdatedAt.Format("2006-01-02 15:04")),
		)
	}
}
