package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kiosk-report/internal/database"
	"kiosk-report/internal/model"
	"kiosk-report/internal/policy"
)

// ReportQuery 描述一次報表查詢；日期區間需兩端皆有才套用（含首尾）
type ReportQuery struct {
	Scope     policy.ReportScope
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

func buildReportQuery(q ReportQuery) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`SELECT r.id, r.ward_id, r.city_id, r.date, r.procedure, r.count,
		r.age_group, r.gender, r.domain, r.auth_type, r.print_time, w.ward_name
		FROM reports r
		LEFT JOIN wards w ON r.ward_id = w.ward_id`)
	fmt.Fprintf(&sb, "\n\t\tWHERE r.print_time BETWEEN %d AND %d", model.FirstReportHour, model.LastReportHour)

	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if q.Scope.CityID != nil {
		sb.WriteString(" AND r.city_id = " + arg(*q.Scope.CityID))
	}
	if q.Scope.WardID != nil {
		sb.WriteString(" AND r.ward_id = " + arg(*q.Scope.WardID))
	}
	if q.StartDate != nil && q.EndDate != nil {
		sb.WriteString(" AND r.date >= " + arg(*q.StartDate))
		sb.WriteString(" AND r.date <= " + arg(*q.EndDate))
	}
	sb.WriteString("\n\t\tORDER BY r.date DESC, r.print_time ASC")
	sb.WriteString(" LIMIT " + arg(q.Limit))
	sb.WriteString(" OFFSET " + arg(q.Offset))
	return sb.String(), args
}

func ListReports(ctx context.Context, db database.DB, q ReportQuery) ([]model.Report, error) {
	sql, args := buildReportQuery(q)
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ListReports: %w", err)
	}
	defer rows.Close()

	reports := []model.Report{}
	for rows.Next() {
		var r model.Report
		if err := rows.Scan(
			&r.ID,
			&r.WardID,
			&r.CityID,
			&r.Date,
			&r.Procedure,
			&r.Count,
			&r.AgeGroup,
			&r.Gender,
			&r.Domain,
			&r.AuthType,
			&r.PrintTime,
			&r.WardName,
		); err != nil {
			return nil, fmt.Errorf("ListReports: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListReports: %w", err)
	}
	return reports, nil
}
