package reports

import (
	"net/http"

	"kiosk-report/internal/api"
	"kiosk-report/internal/database"

	"github.com/labstack/echo/v4"
)

// ListReportsHandler 回傳呼叫者可見的列印紀錄（7 到 17 時）
// @Summary     List report rows
// @Description 依角色過濾：admin 全部、city 同城市、ward 自己的 ward；依日期遞減、時段遞增排序
// @Tags        reports
// @Produce     json
// @Param       limit      query    int    false "筆數上限 (1-10000)" default(1000)
// @Param       offset     query    int    false "起始位移" default(0)
// @Param       ward_id    query    int    false "限定 ward"
// @Param       start_date query    string false "起始日 YYYY-MM-DD"
// @Param       end_date   query    string false "結束日 YYYY-MM-DD"
// @Success     200        {object} api.ReportListResponse
// @Failure     400        {object} api.ErrorResponse
// @Failure     401        {object} api.ErrorResponse
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Failure     500        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /reports [get]
func ListReportsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, q, err := bindQuery(c, db, defaultListLimit)
		if err != nil {
			return respond(c, err)
		}

		rows, err := listReports(c.Request().Context(), db, q)
		if err != nil {
			return respond(c, err)
		}

		data := make([]api.ReportRow, 0, len(rows))
		for _, r := range rows {
			data = append(data, api.NewReportRow(r))
		}
		return c.JSON(http.StatusOK, api.ReportListResponse{Success: true, Data: data, Total: len(data)})
	}
}
