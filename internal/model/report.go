package model

import "time"

// Report 是上游印單系統寫入的一筆紀錄，本服務只讀
type Report struct {
	ID        int64
	WardID    *int
	CityID    *int
	Date      *time.Time
	Procedure *string
	Count     int
	AgeGroup  *string
	Gender    *string
	Domain    *string
	AuthType  *string
	PrintTime *int
	WardName  *string
}

// 只統計營業時段內（含首尾）列印的紀錄
const (
	FirstReportHour = 7
	LastReportHour  = 17
)
