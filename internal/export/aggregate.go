package export

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"kiosk-report/internal/model"

	"golang.org/x/text/unicode/norm"
)

// TopProcedureLimit 為熱門手續表的最大列數
const TopProcedureLimit = 8

const (
	genderMale   = "Nam"
	genderFemale = "Nữ"
)

type counter struct {
	counts map[string]int
}

func newCounter() *counter { return &counter{counts: map[string]int{}} }

func (c *counter) add(key string) { c.counts[key]++ }

// keys 依字典序回傳所有鍵
func (c *counter) keys() []string {
	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func text(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	s := strings.TrimSpace(*p)
	return s, s != ""
}

func countBy(rows []model.Report, key func(model.Report) (string, bool)) *counter {
	c := newCounter()
	for _, r := range rows {
		if k, ok := key(r); ok {
			c.add(k)
		}
	}
	return c
}

func isoWeekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return time.Date(d.Year(), d.Month(), d.Day()-offset, 0, 0, 0, 0, time.UTC)
}

// CountsByPeriod 計算每日或每 ISO 週的列印次數，依期間遞增
func CountsByPeriod(rows []model.Report, mode GroupMode) Table {
	if mode == GroupByWeek {
		starts := map[string]time.Time{}
		c := countBy(rows, func(r model.Report) (string, bool) {
			if r.Date == nil {
				return "", false
			}
			y, w := r.Date.ISOWeek()
			label := weekLabel(y, w)
			starts[label] = isoWeekStart(*r.Date)
			return label, true
		})
		t := Table{Sheet: "Số lượt in", File: "so_luot_in.csv", Header: []string{"Tuần", "Từ", "Đến", "Số lượt in"}}
		for _, k := range c.keys() {
			mon := starts[k]
			t.Rows = append(t.Rows, []any{k, mon.Format("02/01"), mon.AddDate(0, 0, 6).Format("02/01"), c.counts[k]})
		}
		return t
	}

	c := countBy(rows, func(r model.Report) (string, bool) {
		if r.Date == nil {
			return "", false
		}
		return r.Date.Format(time.DateOnly), true
	})
	t := Table{Sheet: "Số lượt in", File: "so_luot_in.csv", Header: []string{"Ngày", "Số lượt in"}}
	for _, k := range c.keys() {
		t.Rows = append(t.Rows, []any{k, c.counts[k]})
	}
	return t
}

// weekLabel 以 ISO 年與週次組成標籤，例如 2024-W05
func weekLabel(year, week int) string {
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// CountsByDomain 計算各領域出現次數
func CountsByDomain(rows []model.Report) Table {
	c := countBy(rows, func(r model.Report) (string, bool) { return text(r.Domain) })
	t := Table{Sheet: "Lĩnh vực", File: "linh_vuc.csv", Header: []string{"Lĩnh vực", "Tần suất"}}
	for _, k := range c.keys() {
		t.Rows = append(t.Rows, []any{k, c.counts[k]})
	}
	return t
}

// TopProcedures 取出最常見的手續，次數遞減；同次數保留字典序
func TopProcedures(rows []model.Report) Table {
	c := countBy(rows, func(r model.Report) (string, bool) { return text(r.Procedure) })
	keys := c.keys()
	sort.SliceStable(keys, func(i, j int) bool { return c.counts[keys[i]] > c.counts[keys[j]] })
	if len(keys) > TopProcedureLimit {
		keys = keys[:TopProcedureLimit]
	}
	t := Table{Sheet: "Top thủ tục", File: "top_thu_tuc.csv", Header: []string{"Tên thủ tục", "Tần suất"}}
	for _, k := range keys {
		t.Rows = append(t.Rows, []any{k, c.counts[k]})
	}
	return t
}

// HourlyActivity 統計 7 到 17 時每小時的列印次數與出現的日數
func HourlyActivity(rows []model.Report) Table {
	totals := map[int]int{}
	days := map[int]map[string]struct{}{}
	for _, r := range rows {
		if r.PrintTime == nil {
			continue
		}
		h := *r.PrintTime
		if h < model.FirstReportHour || h > model.LastReportHour {
			continue
		}
		totals[h]++
		if r.Date != nil {
			if days[h] == nil {
				days[h] = map[string]struct{}{}
			}
			days[h][r.Date.Format(time.DateOnly)] = struct{}{}
		}
	}

	t := Table{Sheet: "In theo giờ", File: "in_theo_gio.csv", Header: []string{"Giờ", "Tổng số lượt", "Số ngày có in", "Trung bình"}}
	for h := model.FirstReportHour; h <= model.LastReportHour; h++ {
		total, ok := totals[h]
		if !ok {
			continue
		}
		n := len(days[h])
		avg := float64(total)
		if n > 0 {
			avg = round1(float64(total) / float64(n))
		}
		t.Rows = append(t.Rows, []any{h, total, n, avg})
	}
	return t
}

// NormalizeGender 將各種性別拼法統一為 Nam / Nữ，其他值原樣保留
func NormalizeGender(g string) string {
	g = norm.NFC.String(strings.TrimSpace(g))
	switch strings.ToLower(g) {
	case "male", "nam", "m":
		return genderMale
	case "female", "nữ", "nu", "f":
		return genderFemale
	}
	return g
}

// AgeGender 交叉統計年齡層與性別，最後一欄為列合計
func AgeGender(rows []model.Report) Table {
	cells := map[string]map[string]int{}
	others := map[string]struct{}{}
	for _, r := range rows {
		age, ok := text(r.AgeGroup)
		if !ok {
			continue
		}
		raw, ok := text(r.Gender)
		if !ok {
			continue
		}
		g := NormalizeGender(raw)
		if g != genderMale && g != genderFemale {
			others[g] = struct{}{}
		}
		if cells[age] == nil {
			cells[age] = map[string]int{}
		}
		cells[age][g]++
	}

	genders := []string{genderMale, genderFemale}
	extra := make([]string, 0, len(others))
	for g := range others {
		extra = append(extra, g)
	}
	sort.Strings(extra)
	genders = append(genders, extra...)

	header := append([]string{"Nhóm tuổi"}, genders...)
	header = append(header, "Tổng")
	t := Table{Sheet: "Tuổi & Giới tính", File: "tuoi_gioitinh.csv", Header: header}

	ages := make([]string, 0, len(cells))
	for a := range cells {
		ages = append(ages, a)
	}
	sort.Strings(ages)
	for _, a := range ages {
		row := []any{a}
		total := 0
		for _, g := range genders {
			n := cells[a][g]
			total += n
			row = append(row, n)
		}
		t.Rows = append(t.Rows, append(row, total))
	}
	return t
}

// AuthShare 計算各驗證方式的次數與百分比（四捨五入至一位小數）
func AuthShare(rows []model.Report) Table {
	c := countBy(rows, func(r model.Report) (string, bool) { return text(r.AuthType) })
	total := 0
	for _, n := range c.counts {
		total += n
	}
	t := Table{Sheet: "Xác thực", File: "xac_thuc.csv", Header: []string{"Loại xác thực", "Số lượng", "Tỷ lệ (%)"}}
	for _, k := range c.keys() {
		n := c.counts[k]
		t.Rows = append(t.Rows, []any{k, n, round1(float64(n) / float64(total) * 100)})
	}
	return t
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

// DataTable 為原始資料工作表
func DataTable(rows []model.Report) Table {
	t := Table{
		Sheet: "Data",
		File:  "data.csv",
		Header: []string{
			"id", "ward_id", "city_id", "date", "procedure", "count", "age_group",
			"gender", "domain", "auth_type", "print_time", "ward_name", "hour",
		},
	}
	for _, r := range rows {
		date := ""
		if r.Date != nil {
			date = r.Date.Format(time.DateOnly)
		}
		t.Rows = append(t.Rows, []any{
			r.ID, intCell(r.WardID), intCell(r.CityID), date, strCell(r.Procedure), r.Count,
			strCell(r.AgeGroup), strCell(r.Gender), strCell(r.Domain), strCell(r.AuthType),
			intCell(r.PrintTime), strCell(r.WardName), intCell(r.PrintTime),
		})
	}
	return t
}

func intCell(p *int) any {
	if p == nil {
		return ""
	}
	return *p
}

func strCell(p *string) any {
	if p == nil {
		return ""
	}
	return *p
}

// Build 依固定順序產生資料表與六張彙總表
func Build(rows []model.Report, mode GroupMode) []Table {
	return []Table{
		DataTable(rows),
		CountsByPeriod(rows, mode),
		CountsByDomain(rows),
		TopProcedures(rows),
		HourlyActivity(rows),
		AgeGender(rows),
		AuthShare(rows),
	}
}
