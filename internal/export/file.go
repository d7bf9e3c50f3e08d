package export

import (
	"fmt"
	"os"

	"kiosk-report/internal/model"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeZIP  = "application/zip"
)

// Result 描述已寫入暫存目錄的匯出檔
type Result struct {
	Path        string
	Filename    string
	ContentType string
	Format      Format
	Rows        int
}

// Remove 刪除暫存檔
func (r *Result) Remove() error {
	if err := os.Remove(r.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

var createTemp = os.CreateTemp

// Render 依格式產生匯出檔。沒有資料時一律產生空白的 xlsx
func Render(dir string, rows []model.Report, mode GroupMode, format Format) (*Result, error) {
	res := &Result{Rows: len(rows), Format: FormatXLSX}
	pattern := "dashboard-*.xlsx"
	res.Filename, res.ContentType = "dashboard_inphieu.xlsx", ContentTypeXLSX
	if len(rows) > 0 && format == FormatCSV {
		pattern = "dashboard-*.zip"
		res.Filename, res.ContentType = "dashboard_inphieu.zip", ContentTypeZIP
		res.Format = FormatCSV
	}

	f, err := createTemp(dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("Render: %w", err)
	}
	res.Path = f.Name()

	switch {
	case len(rows) == 0:
		err = WriteEmptyWorkbook(f)
	case format == FormatCSV:
		err = WriteZIP(f, Build(rows, mode))
	default:
		err = WriteXLSX(f, Build(rows, mode))
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = res.Remove()
		return nil, fmt.Errorf("Render: %w", err)
	}
	return res, nil
}
