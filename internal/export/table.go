// Package export turns a filtered set of report rows into the tables of the
// dashboard export and writes them as an xlsx workbook or a zip of csv files.
package export

import "fmt"

// Table 是一張輸出表：Sheet 為工作表名稱，File 為壓縮檔中的 csv 檔名
type Table struct {
	Sheet  string
	File   string
	Header []string
	Rows   [][]any
}

func (t Table) Empty() bool { return len(t.Rows) == 0 }

// GroupMode 決定列印次數以日或 ISO 週彙總
type GroupMode string

const (
	GroupByDay  GroupMode = "Ngày"
	GroupByWeek GroupMode = "Tuần"
)

func ParseGroupMode(s string) (GroupMode, error) {
	switch GroupMode(s) {
	case "", GroupByDay:
		return GroupByDay, nil
	case GroupByWeek:
		return GroupByWeek, nil
	}
	return "", fmt.Errorf("unsupported group_by %q", s)
}

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}
