package export

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx"
	"videomasa/internal/app/model"
)

var header = []string{"ID", "Job ID", "Created At", "Source", "Title", "Model", "Transcript", "Timestamped"}

// ToExcel writes transcriptions to a single-sheet workbook at outputFilePath.
func ToExcel(transcriptions []model.Transcription, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcriptions")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range header {
		headerRow.AddCell().Value = h
	}

	for _, t := range transcriptions {
		row := sheet.AddRow()
		row.AddCell().SetInt(t.ID)
		row.AddCell().Value = t.JobID
		row.AddCell().Value = t.CreatedAt.Format(time.RFC3339)
		row.AddCell().Value = t.Source
		row.AddCell().Value = t.Title
		row.AddCell().Value = t.Model
		row.AddCell().Value = t.Transcript
		row.AddCell().Value = t.Timestamped
	}

	if err := file.Save(outputFilePath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
