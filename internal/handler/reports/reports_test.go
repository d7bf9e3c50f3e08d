package reports

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"kiosk-report/internal/database"
	"kiosk-report/internal/export"
	"kiosk-report/internal/metrics"
	"kiosk-report/internal/middleware"
	"kiosk-report/internal/model"
	"kiosk-report/internal/policy"
	"kiosk-report/internal/service"
	"kiosk-report/internal/store"
	"kiosk-report/internal/worker"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type realValidator struct{ v *validator.Validate }

func (r realValidator) Validate(i interface{}) error { return r.v.Struct(i) }

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func restore() {
	listReports = store.ListReports
	wardLookup = store.WardLookup
	renderExport = export.Render
	observeExport = metrics.ObserveExport
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = realValidator{v: validator.New()}
	return e
}

func newCtx(e *echo.Echo, target string, claims *service.CustomClaims) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, rec
}

func cityClaims() *service.CustomClaims {
	return &service.CustomClaims{UserID: 2, Username: "tp", Role: model.RoleCity, CityID: intPtr(10)}
}

func wardClaims() *service.CustomClaims {
	return &service.CustomClaims{UserID: 3, Username: "p1", Role: model.RoleWard, CityID: intPtr(10), WardID: intPtr(100)}
}

func adminClaims() *service.CustomClaims {
	return &service.CustomClaims{UserID: 1, Username: "admin", Role: model.RoleAdmin}
}

func lookupWards(wards ...model.Ward) func(database.DB) policy.WardLookup {
	return func(database.DB) policy.WardLookup {
		return func(_ context.Context, id int) (*model.Ward, error) {
			for _, w := range wards {
				if w.ID == id {
					w := w
					return &w, nil
				}
			}
			return nil, nil
		}
	}
}

func sampleRows() []model.Report {
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []model.Report{
		{ID: 1, WardID: intPtr(100), CityID: intPtr(10), Date: &d, PrintTime: intPtr(9),
			Domain: strPtr("Hộ tịch"), Procedure: strPtr("Khai sinh"), WardName: strPtr("Phường 1")},
	}
}

func TestListReportsHandler(t *testing.T) {
	e := newEcho()

	t.Run("unauthenticated", func(t *testing.T) {
		ctx, rec := newCtx(e, "/reports", nil)
		require.NoError(t, ListReportsHandler(nil)(ctx))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("limit out of range", func(t *testing.T) {
		for _, target := range []string{"/reports?limit=0", "/reports?limit=10001", "/reports?offset=-1", "/reports?limit=abc"} {
			ctx, rec := newCtx(e, target, adminClaims())
			require.NoError(t, ListReportsHandler(nil)(ctx))
			require.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		ctx, rec := newCtx(e, "/reports?start_date=2024-13-01&end_date=2024-12-31", adminClaims())
		require.NoError(t, ListReportsHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "start_date")
	})

	t.Run("defaults and ward scope", func(t *testing.T) {
		t.Cleanup(restore)
		var got store.ReportQuery
		listReports = func(_ context.Context, _ database.DB, q store.ReportQuery) ([]model.Report, error) {
			got = q
			return sampleRows(), nil
		}
		// ward 使用者指定其他 ward 會被忽略
		ctx, rec := newCtx(e, "/reports?ward_id=555", wardClaims())
		require.NoError(t, ListReportsHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1000, got.Limit)
		require.Equal(t, 0, got.Offset)
		require.Equal(t, 100, *got.Scope.WardID)
		require.Nil(t, got.Scope.CityID)
		require.Nil(t, got.StartDate)
		require.JSONEq(t, `{"success":true,"total":1,"data":[{"id":1,"ward_id":100,"city_id":10,"date":"2024-03-01",
			"procedure":"Khai sinh","count":0,"age_group":null,"gender":null,"domain":"Hộ tịch","auth_type":null,
			"print_time":9,"ward_name":"Phường 1","hour":9}]}`, rec.Body.String())
	})

	t.Run("city narrows to own ward with dates", func(t *testing.T) {
		t.Cleanup(restore)
		wardLookup = lookupWards(model.Ward{ID: 100, CityID: 10})
		var got store.ReportQuery
		listReports = func(_ context.Context, _ database.DB, q store.ReportQuery) ([]model.Report, error) {
			got = q
			return nil, nil
		}
		ctx, rec := newCtx(e, "/reports?ward_id=100&start_date=2024-01-01&end_date=2024-01-31&limit=50&offset=10", cityClaims())
		require.NoError(t, ListReportsHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 10, *got.Scope.CityID)
		require.Equal(t, 100, *got.Scope.WardID)
		require.Equal(t, "2024-01-01", got.StartDate.Format(time.DateOnly))
		require.Equal(t, "2024-01-31", got.EndDate.Format(time.DateOnly))
		require.Equal(t, 50, got.Limit)
		require.Equal(t, 10, got.Offset)
		require.JSONEq(t, `{"success":true,"data":[],"total":0}`, rec.Body.String())
	})

	t.Run("city foreign ward", func(t *testing.T) {
		t.Cleanup(restore)
		wardLookup = lookupWards(model.Ward{ID: 200, CityID: 20})
		ctx, rec := newCtx(e, "/reports?ward_id=200", cityClaims())
		require.NoError(t, ListReportsHandler(nil)(ctx))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("city unknown ward", func(t *testing.T) {
		t.Cleanup(restore)
		wardLookup = lookupWards()
		ctx, rec := newCtx(e, "/reports?ward_id=999", cityClaims())
		require.NoError(t, ListReportsHandler(nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		listReports = func(context.Context, database.DB, store.ReportQuery) ([]model.Report, error) {
			return nil, errors.New("boom")
		}
		ctx, rec := newCtx(e, "/reports", adminClaims())
		require.NoError(t, ListReportsHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.NotContains(t, rec.Body.String(), "boom")
	})
}

func TestExportHandler(t *testing.T) {
	e := newEcho()

	t.Run("invalid format", func(t *testing.T) {
		ctx, rec := newCtx(e, "/reports/export?format=pdf", adminClaims())
		require.NoError(t, ExportHandler(nil, "", nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid group_by", func(t *testing.T) {
		ctx, rec := newCtx(e, "/reports/export?group_by=month", adminClaims())
		require.NoError(t, ExportHandler(nil, "", nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("csv zip and cleanup", func(t *testing.T) {
		t.Cleanup(restore)
		dir := t.TempDir()
		var got store.ReportQuery
		listReports = func(_ context.Context, _ database.DB, q store.ReportQuery) ([]model.Report, error) {
			got = q
			return sampleRows(), nil
		}
		var observed string
		observeExport = func(format string, rows int) { observed = format }

		pool := worker.NewPool(1, 1)
		ctx, rec := newCtx(e, "/reports/export?format=csv&group_by=Tu%E1%BA%A7n", adminClaims())
		require.NoError(t, ExportHandler(nil, dir, pool)(ctx))
		pool.Stop()

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 10000, got.Limit)
		require.Equal(t, "csv", observed)
		require.Equal(t, export.ContentTypeZIP, rec.Header().Get(echo.HeaderContentType))
		require.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "dashboard_inphieu.zip")

		zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
		require.NoError(t, err)
		require.Equal(t, "data.csv", zr.File[0].Name)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Empty(t, entries)
	})

	t.Run("no rows gives empty workbook", func(t *testing.T) {
		t.Cleanup(restore)
		listReports = func(context.Context, database.DB, store.ReportQuery) ([]model.Report, error) {
			return nil, nil
		}
		observed := ""
		observeExport = func(format string, _ int) { observed = format }
		ctx, rec := newCtx(e, "/reports/export?format=csv", wardClaims())
		require.NoError(t, ExportHandler(nil, t.TempDir(), nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "xlsx", observed)
		require.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "dashboard_inphieu.xlsx")

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		require.Equal(t, []string{"Data"}, f.GetSheetList())
	})

	t.Run("render error", func(t *testing.T) {
		t.Cleanup(restore)
		listReports = func(context.Context, database.DB, store.ReportQuery) ([]model.Report, error) {
			return sampleRows(), nil
		}
		renderExport = func(string, []model.Report, export.GroupMode, export.Format) (*export.Result, error) {
			return nil, errors.New("disk full")
		}
		ctx, rec := newCtx(e, "/reports/export", adminClaims())
		require.NoError(t, ExportHandler(nil, "", nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
