package export

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"videomasa/internal/app/export"
	"videomasa/internal/app/repository/sqlite"
	"videomasa/internal/config"
)

var outputFilePath string
var limit int

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "outputFilePath", "o", "", "set outputFilePath")
	Cmd.Flags().IntVarP(&limit, "limit", "n", 0, "export only the newest n transcripts, 0 for all")

	Cmd.MarkFlagRequired("outputFilePath")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded transcripts to excel",
	Long: `Export recorded transcripts to excel

- Reads the SQLite database named by VIDEOMASA_HISTORY_DB
- Writes one row per transcript, newest first`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.LoadEnv(); err != nil {
			return err
		}
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		if settings.HistoryDB == "" {
			return errors.New("history is disabled: set VIDEOMASA_HISTORY_DB")
		}

		db, err := sqlite.NewSQLiteDB(settings.HistoryDB)
		if err != nil {
			return err
		}
		defer db.Close()

		transcriptions, err := db.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if err := export.ToExcel(transcriptions, outputFilePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "export finished, %d transcripts written to %v\n", len(transcriptions), outputFilePath)
		return nil
	},
}
