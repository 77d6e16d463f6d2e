// Package seed writes the demo fixture: three branches with three months of
// financial and operational workbooks shaped like real submissions, so the
// analyzer can be exercised without production data.
package seed

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"branchcli/pkg/contracts/domain"
)

// Entities seeded by Generate.
var demoEntities = []string{"branch-a", "branch-b", "branch-c"}

// demoPeriods covers July through September 2023.
var demoPeriods = []domain.Period{202307, 202308, 202309}

// Generate writes the demo workbooks into dir and returns the created file
// paths. Existing files with the same names are overwritten.
func Generate(dir string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	var paths []string
	for _, entity := range demoEntities {
		for i, period := range demoPeriods {
			growth := float64(i)

			finPath := filepath.Join(dir, fmt.Sprintf("%s_financial_%s.xlsx", entity, period))
			finRows := [][2]interface{}{
				{"Revenue", 100000*(1+growth*0.2) + 10000*growth},
				{"Cost", 40000*(1+growth*0.2) + 5000*growth},
				{"Marketing Spend", 20000 * (1 + growth*0.1)},
				{"R&D Spend", 15000.0},
				{"Admin Spend", 5000.0},
			}
			if err := writeSheet(finPath, "item", finRows); err != nil {
				return nil, err
			}
			paths = append(paths, finPath)

			opsPath := filepath.Join(dir, fmt.Sprintf("%s_operational_%s.xlsx", entity, period))
			opsRows := [][2]interface{}{
				{"Starting Users", 50000 + growth*10000},
				{"Ending Users", 60000 + growth*10000},
				{"New Users", 10000 + growth*1000},
				{"Total Orders", 8000 + growth*500},
				{"Paying Users", 1500 + growth*100},
			}
			if err := writeSheet(opsPath, "metric", opsRows); err != nil {
				return nil, err
			}
			paths = append(paths, opsPath)
		}
	}

	logger.Info("seeded demo data",
		slog.String("dir", dir),
		slog.Int("files", len(paths)))

	return paths, nil
}

func writeSheet(path, header string, rows [][2]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	head := []interface{}{header, "value"}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return err
	}
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		line := []interface{}{row[0], row[1]}
		if err := f.SetSheetRow(sheet, addr, &line); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
