package api

import (
	"time"

	"kiosk-report/internal/model"
)

// swagger:model api.ReportRow
type ReportRow struct {
	ID        int64   `json:"id" example:"1"`
	WardID    *int    `json:"ward_id" example:"1"`
	CityID    *int    `json:"city_id" example:"1"`
	Date      *string `json:"date" example:"2024-03-01"`
	Procedure *string `json:"procedure" example:"Đăng ký khai sinh"`
	Count     int     `json:"count" example:"1"`
	AgeGroup  *string `json:"age_group" example:"18-30"`
	Gender    *string `json:"gender" example:"Nam"`
	Domain    *string `json:"domain" example:"Hộ tịch"`
	AuthType  *string `json:"auth_type" example:"CCCD"`
	PrintTime *int    `json:"print_time" example:"9"`
	WardName  *string `json:"ward_name" example:"Phường 1"`
	Hour      *int    `json:"hour" example:"9"`
}

func NewReportRow(r model.Report) ReportRow {
	row := ReportRow{
		ID:        r.ID,
		WardID:    r.WardID,
		CityID:    r.CityID,
		Procedure: r.Procedure,
		Count:     r.Count,
		AgeGroup:  r.AgeGroup,
		Gender:    r.Gender,
		Domain:    r.Domain,
		AuthType:  r.AuthType,
		PrintTime: r.PrintTime,
		WardName:  r.WardName,
		Hour:      r.PrintTime,
	}
	if r.Date != nil {
		d := r.Date.Format(time.DateOnly)
		row.Date = &d
	}
	return row
}

// swagger:model api.ReportListResponse
type ReportListResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    []ReportRow `json:"data"`
	Total   int         `json:"total" example:"1"`
}

// swagger:model api.PingResponse
type PingResponse struct {
	Message string `json:"message" example:"pong"`
}

// ReportQueryParams 為 /reports 與 /reports/export 共用的查詢參數
type ReportQueryParams struct {
	Limit     int    `query:"limit" validate:"min=1,max=10000"`
	Offset    int    `query:"offset" validate:"min=0"`
	WardID    int    `query:"ward_id"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	Format    string `query:"format"`
	GroupBy   string `query:"group_by"`
}
