package history

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"videomasa/internal/app/model"
	"videomasa/internal/app/repository/sqlite"
	"videomasa/internal/app/tools"
	"videomasa/internal/config"
)

const previewWidth = 48

var limit int

func init() {
	Cmd.Flags().IntVarP(&limit, "limit", "n", config.DefaultHistoryLimit, "number of transcripts to show, 0 for all")
}

// Cmd represents the history command
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded transcripts",
	Long: `List recorded transcripts

- Reads the SQLite database named by VIDEOMASA_HISTORY_DB
- Newest first`,
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

		records, err := db.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No transcripts recorded yet.")
			return nil
		}
		render(cmd.OutOrStdout(), records, time.Now())
		return nil
	},
}

func render(w io.Writer, records []model.Transcription, now time.Time) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Job", "When", "Model", "Title", "Transcript"})

	for _, r := range records {
		tw.AppendRow(table.Row{
			r.ID,
			r.JobID,
			humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
			r.Model,
			r.Title,
			preview(r.Transcript),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	tw.Render()
}

// preview flattens whitespace so one transcript stays on one table row.
func preview(s string) string {
	flat := strings.Join(strings.Fields(s), " ")
	if short := tools.Truncate(flat, previewWidth); short != flat {
		return short + "…"
	}
	return flat
}
