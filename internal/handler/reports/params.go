package reports

import (
	"context"
	"errors"
	"net/http"
	"time"

	"kiosk-report/internal/api"
	"kiosk-report/internal/database"
	"kiosk-report/internal/middleware"
	"kiosk-report/internal/policy"
	"kiosk-report/internal/store"

	"github.com/labstack/echo/v4"
)

const (
	defaultListLimit   = 1000
	defaultExportLimit = 10000
)

var (
	listReports = store.ListReports
	wardLookup  = store.WardLookup
)

// httpError 讓解析流程以單一回傳值帶出狀態碼
type httpError struct {
	code   int
	detail string
}

func (e *httpError) Error() string { return e.detail }

func respond(c echo.Context, err error) error {
	var he *httpError
	if errors.As(err, &he) {
		return c.JSON(he.code, api.ErrorResponse{Detail: he.detail})
	}
	c.Logger().Errorf("reports: %v", err)
	return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "Internal server error"})
}

func parseDate(name, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, &httpError{http.StatusBadRequest, "Invalid " + name + ", expected YYYY-MM-DD"}
	}
	return &t, nil
}

// bindQuery 解析查詢參數並依呼叫者角色決定可見範圍
func bindQuery(c echo.Context, db database.DB, defaultLimit int) (api.ReportQueryParams, store.ReportQuery, error) {
	params := api.ReportQueryParams{Limit: defaultLimit}
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return params, store.ReportQuery{}, &httpError{http.StatusUnauthorized, "Not authenticated"}
	}
	if err := c.Bind(&params); err != nil {
		return params, store.ReportQuery{}, &httpError{http.StatusBadRequest, "invalid query parameters"}
	}
	if err := c.Validate(&params); err != nil {
		return params, store.ReportQuery{}, &httpError{http.StatusBadRequest, err.Error()}
	}

	start, err := parseDate("start_date", params.StartDate)
	if err != nil {
		return params, store.ReportQuery{}, err
	}
	end, err := parseDate("end_date", params.EndDate)
	if err != nil {
		return params, store.ReportQuery{}, err
	}

	var requested *int
	if params.WardID > 0 {
		requested = &params.WardID
	}
	rs, err := resolveScope(c.Request().Context(), scope, requested, wardLookup(db))
	if err != nil {
		return params, store.ReportQuery{}, err
	}

	return params, store.ReportQuery{
		Scope:     rs,
		StartDate: start,
		EndDate:   end,
		Limit:     params.Limit,
		Offset:    params.Offset,
	}, nil
}

func resolveScope(ctx context.Context, scope policy.Scope, ward *int, lookup policy.WardLookup) (policy.ReportScope, error) {
	rs, err := policy.ResolveReportScope(ctx, scope, ward, lookup)
	switch {
	case errors.Is(err, policy.ErrUnitNotFound):
		return rs, &httpError{http.StatusNotFound, "Ward not found"}
	case errors.Is(err, policy.ErrForbidden):
		return rs, &httpError{http.StatusForbidden, "Permission denied"}
	}
	return rs, err
}
