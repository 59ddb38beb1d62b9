package report

import (
	"fmt"
	"io"

	"crime_service/internal/domain/model"

	"github.com/xuri/excelize/v2"
)

const (
	countsSheet = "Counts"
	rowsSheet   = "Rows"
	forcesSheet = "Forces"
)

// WorkbookRenderer writes the report as an xlsx workbook with a native bar
// chart over the counts sheet.
type WorkbookRenderer struct{}

func NewWorkbookRenderer() *WorkbookRenderer { return &WorkbookRenderer{} }

func (r *WorkbookRenderer) Name() string { return "xlsx" }

func (r *WorkbookRenderer) Ext() string { return "xlsx" }

func (r *WorkbookRenderer) Render(w io.Writer, rep *model.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", countsSheet); err != nil {
		return err
	}
	if err := writeCounts(f, rep.Counts); err != nil {
		return fmt.Errorf("failed to write counts: %w", err)
	}
	if err := writeRows(f, rep.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := writeForces(f, rep.MissingOutcomeForces); err != nil {
		return fmt.Errorf("failed to write forces: %w", err)
	}
	if len(rep.Counts) > 0 {
		if err := addCountsChart(f, len(rep.Counts)); err != nil {
			return fmt.Errorf("failed to add chart: %w", err)
		}
	}

	f.SetActiveSheet(0)
	_, err := f.WriteTo(w)
	return err
}

func writeCounts(f *excelize.File, counts []model.AggregatedCount) error {
	if err := f.SetSheetRow(countsSheet, "A1", &[]interface{}{"CRIME", "COUNT"}); err != nil {
		return err
	}
	for i, c := range counts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(countsSheet, cell, &[]interface{}{c.Category, c.Count}); err != nil {
			return err
		}
	}
	return nil
}

func writeRows(f *excelize.File, rows []model.EnrichedRow) error {
	if _, err := f.NewSheet(rowsSheet); err != nil {
		return err
	}

	// Use Stream Writer, a report can hold several thousand crimes
	sw, err := f.NewStreamWriter(rowsSheet)
	if err != nil {
		return err
	}

	headers := []interface{}{"CRIME", "OUTCOME", "FORCE", "FLG"}
	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		outcome := ""
		if r.OutcomeCategory != nil {
			outcome = *r.OutcomeCategory
		}
		flag := 0
		if r.MissingOutcome {
			flag = 1
		}
		if err := sw.SetRow(cell, []interface{}{r.CrimeCategory, outcome, r.Force, flag}); err != nil {
			return err
		}
	}

	return sw.Flush()
}

func writeForces(f *excelize.File, forces []string) error {
	if _, err := f.NewSheet(forcesSheet); err != nil {
		return err
	}
	if err := f.SetCellValue(forcesSheet, "A1", "FORCE"); err != nil {
		return err
	}
	for i, force := range forces {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(forcesSheet, cell, force); err != nil {
			return err
		}
	}
	return nil
}

func addCountsChart(f *excelize.File, n int) error {
	last := n + 1
	return f.AddChart(countsSheet, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", countsSheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", countsSheet, last),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", countsSheet, last),
			},
		},
	})
}
