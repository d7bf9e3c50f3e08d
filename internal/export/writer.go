package export

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WriteXLSX 將每張表寫成一個工作表；空表仍保留標題列
func WriteXLSX(w io.Writer, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, t.Sheet); err != nil {
				return fmt.Errorf("WriteXLSX: %w", err)
			}
		} else if _, err := f.NewSheet(t.Sheet); err != nil {
			return fmt.Errorf("WriteXLSX: %w", err)
		}
		if err := writeSheet(f, t); err != nil {
			return fmt.Errorf("WriteXLSX: %w", err)
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("WriteXLSX: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t Table) error {
	if len(t.Header) == 0 {
		return nil
	}
	sw, err := f.NewStreamWriter(t.Sheet)
	if err != nil {
		return err
	}
	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

// WriteEmptyWorkbook 寫出只有一張空白 Data 工作表的活頁簿
func WriteEmptyWorkbook(w io.Writer) error {
	return WriteXLSX(w, []Table{{Sheet: "Data"}})
}

// WriteZIP 將非空的表各自寫成 csv 放入壓縮檔
func WriteZIP(w io.Writer, tables []Table) error {
	zw := zip.NewWriter(w)
	for _, t := range tables {
		if t.Empty() {
			continue
		}
		fw, err := zw.Create(t.File)
		if err != nil {
			return fmt.Errorf("WriteZIP: %w", err)
		}
		if err := writeCSV(fw, t); err != nil {
			return fmt.Errorf("WriteZIP: %s: %w", t.File, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("WriteZIP: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	record := make([]string, len(t.Header))
	for _, row := range t.Rows {
		record = record[:0]
		for _, v := range row {
			record = append(record, formatCell(v))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
