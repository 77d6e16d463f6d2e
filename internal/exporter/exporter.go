// Package exporter renders the scored metric table into the final Excel
// report: a chart dashboard comparing entities over their latest period, and
// a detail sheet with every entity-period row.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"branchcli/pkg/contracts/domain"
)

const (
	dashboardSheet = "Dashboard"
	detailsSheet   = "Details"
	chartDataSheet = "ChartData"
)

// detailHeaders is the Details sheet column order.
var detailHeaders = []string{
	"Entity", "Period",
	"Revenue", "Cost", "Marketing Spend", "R&D Spend", "Admin Spend",
	"Starting Users", "Ending Users", "New Users", "Total Orders", "Paying Users",
	"Prior Revenue", "Revenue Growth", "CAC", "Prior Ending Users",
	"Retention Rate", "Gross Margin", "ARPU", "LTV", "LTV/CAC",
	"Score", "Rating",
}

// ReportWriter writes the performance report workbook.
type ReportWriter struct {
	reportsDir string
	logger     *slog.Logger
}

// NewReportWriter creates a report writer targeting reportsDir. A nil logger
// falls back to the default.
func NewReportWriter(reportsDir string, logger *slog.Logger) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{reportsDir: reportsDir, logger: logger}
}

// Write renders the report and returns the written file path. The file is
// named performance_report_YYYYMMDD.xlsx after the run date.
func (w *ReportWriter) Write(ctx context.Context, rows []domain.ScoredRow) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("no scored rows to report")
	}
	if err := os.MkdirAll(w.reportsDir, 0755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), dashboardSheet)
	if _, err := f.NewSheet(detailsSheet); err != nil {
		return "", fmt.Errorf("create details sheet: %w", err)
	}

	if err := w.writeDetails(f, rows); err != nil {
		return "", err
	}
	if err := w.writeDashboard(f, rows); err != nil {
		return "", err
	}

	path := filepath.Join(w.reportsDir,
		fmt.Sprintf("performance_report_%s.xlsx", time.Now().Format("20060102")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	w.logger.InfoContext(ctx, "report written",
		slog.String("path", path),
		slog.Int("rows", len(rows)))

	return path, nil
}

// cell renders a Value for a sheet: undefined stays an empty cell, never 0.
func cell(v domain.Value) interface{} {
	if !v.Defined() {
		return nil
	}
	return v.Float64
}

func (w *ReportWriter) writeDetails(f *excelize.File, rows []domain.ScoredRow) error {
	header := make([]interface{}, len(detailHeaders))
	for i, h := range detailHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(detailsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write details header: %w", err)
	}

	for i, r := range rows {
		row := []interface{}{
			r.Entity, r.Period.Label(),
			cell(r.Revenue), cell(r.Cost), cell(r.MarketingSpend), cell(r.RnDSpend), cell(r.AdminSpend),
			cell(r.StartingUsers), cell(r.EndingUsers), cell(r.NewUsers), cell(r.TotalOrders), cell(r.PayingUsers),
			cell(r.PriorRevenue), cell(r.RevenueGrowth), cell(r.CAC), cell(r.PriorEndingUsers),
			cell(r.RetentionRate), cell(r.GrossMargin), cell(r.ARPU), cell(r.LTV), cell(r.LTVCACRatio),
			r.Score, r.Rating.Describe(),
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(detailsSheet, addr, &row); err != nil {
			return fmt.Errorf("write details row %d: %w", i+2, err)
		}
	}
	return nil
}

// latestPerEntity picks each entity's most recent period for the dashboard
// comparison. Rows arrive sorted by entity then period, so the last row per
// entity wins.
func latestPerEntity(rows []domain.ScoredRow) []domain.ScoredRow {
	byEntity := make(map[string]domain.ScoredRow)
	var entities []string
	for _, r := range rows {
		if _, seen := byEntity[r.Entity]; !seen {
			entities = append(entities, r.Entity)
		}
		if cur, seen := byEntity[r.Entity]; !seen || r.Period > cur.Period {
			byEntity[r.Entity] = r
		}
	}
	out := make([]domain.ScoredRow, 0, len(entities))
	for _, e := range entities {
		out = append(out, byEntity[e])
	}
	return out
}

func (w *ReportWriter) writeDashboard(f *excelize.File, rows []domain.ScoredRow) error {
	latest := latestPerEntity(rows)

	if _, err := f.NewSheet(chartDataSheet); err != nil {
		return fmt.Errorf("create chart data sheet: %w", err)
	}
	head := []interface{}{"Entity", "LTV/CAC", "Score"}
	if err := f.SetSheetRow(chartDataSheet, "A1", &head); err != nil {
		return err
	}
	for i, r := range latest {
		row := []interface{}{r.Entity, cell(r.LTVCACRatio), r.Score}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(chartDataSheet, addr, &row); err != nil {
			return err
		}
	}
	if err := f.SetSheetVisible(chartDataSheet, false); err != nil {
		return err
	}

	lastRow := len(latest) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", chartDataSheet, lastRow)

	ratioChart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", chartDataSheet),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", chartDataSheet, lastRow),
		}},
		Title:    []excelize.RichTextRun{{Text: "LTV/CAC ratio by branch (latest period)"}},
		PlotArea: excelize.ChartPlotArea{ShowVal: true},
	}
	if err := f.AddChart(dashboardSheet, "A1", ratioChart); err != nil {
		return fmt.Errorf("add ratio chart: %w", err)
	}

	scoreChart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$C$1", chartDataSheet),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$C$2:$C$%d", chartDataSheet, lastRow),
		}},
		Title:    []excelize.RichTextRun{{Text: "Health score by branch (latest period)"}},
		PlotArea: excelize.ChartPlotArea{ShowVal: true},
	}
	if err := f.AddChart(dashboardSheet, "A20", scoreChart); err != nil {
		return fmt.Errorf("add score chart: %w", err)
	}

	return nil
}
