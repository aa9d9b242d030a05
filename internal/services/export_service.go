package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/alimgiray/orgboard/internal/models"
	"github.com/xuri/excelize/v2"
)

var leaderboardHeader = []interface{}{
	"Rank", "Login", "Score", "Total", "Repositories", "Weekly", "Monthly", "Achievements",
}

type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// WriteLeaderboardXLSX writes view as a single-sheet workbook
func (s *ExportService) WriteLeaderboardXLSX(w io.Writer, view *models.LeaderboardView) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := append([]interface{}(nil), leaderboardHeader...)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, entry := range view.Entries {
		row := []interface{}{
			entry.Rank,
			entry.Login,
			entry.Score,
			entry.TotalContributions,
			entry.RepositoryCount,
			entry.WeeklyContributions,
			entry.MonthlyContributions,
			strings.Join(entry.Achievements, ", "),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", entry.Login, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportFilename names the download for a view
func ExportFilename(view *models.LeaderboardView) string {
	return fmt.Sprintf("%s-leaderboard-%s.xlsx", view.Org, view.Period)
}
