package clean

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"videomasa/internal/app/workspace"
	"videomasa/internal/config"
)

// Cmd represents the clean command
var Cmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete leftover downloads from the working directory",
	Long: `Delete leftover downloads from the working directory

- Removes media, transcriber output, thumbnails and scratch directories
- Refuses to run while a server is using the directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadEnv(); err != nil {
			return err
		}
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}

		ws, err := workspace.New(settings.WorkDir, nil)
		if err != nil {
			return err
		}
		if err := ws.Lock(); err != nil {
			return err
		}
		defer ws.Unlock()

		result := ws.Wipe()
		n := len(result.Removed)
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s %s from %s\n", humanize.Comma(int64(n)), plural(n, "entry", "entries"), ws.Dir())
		return errors.Join(result.Errors...)
	},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
