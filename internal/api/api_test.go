package api

import (
	"encoding/json"
	"testing"
	"time"

	"kiosk-report/internal/model"

	"github.com/stretchr/testify/require"
)

func TestNewUserResponseHidesHash(t *testing.T) {
	city := 2
	u := model.User{ID: 5, Username: "q1", PasswordHash: "secret-hash", Role: model.RoleCity, CityID: &city}
	b, err := json.Marshal(NewUserResponse(u))
	require.NoError(t, err)
	require.NotContains(t, string(b), "secret-hash")
	require.Contains(t, string(b), `"user_id":5`)
	require.Contains(t, string(b), `"ward_id":null`)
}

func TestNewReportRow(t *testing.T) {
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	hour := 9
	row := NewReportRow(model.Report{ID: 1, Date: &d, PrintTime: &hour})
	require.Equal(t, "2024-03-01", *row.Date)
	require.Equal(t, 9, *row.Hour)

	row = NewReportRow(model.Report{ID: 2})
	require.Nil(t, row.Date)
	require.Nil(t, row.Hour)
}
