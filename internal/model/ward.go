package model

type Ward struct {
	ID     int    `db:"ward_id" json:"ward_id"`
	Name   string `db:"ward_name" json:"ward_name"`
	CityID int    `db:"city_id" json:"city_id"`
}
