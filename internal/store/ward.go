package store

import (
	"context"
	"errors"
	"fmt"

	"kiosk-report/internal/database"
	"kiosk-report/internal/model"
	"kiosk-report/internal/policy"

	"github.com/jackc/pgx/v5"
)

func GetWardByID(ctx context.Context, db database.DB, wardID int) (*model.Ward, error) {
	w := &model.Ward{}
	err := db.QueryRow(ctx,
		`SELECT ward_id, ward_name, city_id FROM wards WHERE ward_id = $1`,
		wardID,
	).Scan(&w.ID, &w.Name, &w.CityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("GetWardByID: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("GetWardByID: %w", err)
	}
	return w, nil
}

// WardLookup 轉接給 policy 使用；查無資料回傳 nil, nil
func WardLookup(db database.DB) policy.WardLookup {
	return func(ctx context.Context, wardID int) (*model.Ward, error) {
		w, err := GetWardByID(ctx, db, wardID)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return w, err
	}
}
