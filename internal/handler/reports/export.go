package reports

import (
	"net/http"

	"kiosk-report/internal/database"
	"kiosk-report/internal/export"
	"kiosk-report/internal/metrics"
	"kiosk-report/internal/worker"

	"github.com/labstack/echo/v4"
)

var (
	renderExport  = export.Render
	observeExport = metrics.ObserveExport
)

// ExportHandler 匯出儀表板報表
// @Summary     Export dashboard report
// @Description xlsx 產生多工作表活頁簿；csv 產生含各表 csv 的 zip。沒有資料時回傳空白 xlsx
// @Tags        reports
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce     application/zip
// @Param       format     query    string false "xlsx 或 csv" Enums(xlsx, csv) default(xlsx)
// @Param       group_by   query    string false "Ngày 或 Tuần" Enums(Ngày, Tuần) default(Ngày)
// @Param       start_date query    string false "起始日 YYYY-MM-DD"
// @Param       end_date   query    string false "結束日 YYYY-MM-DD"
// @Param       ward_id    query    int    false "限定 ward"
// @Param       limit      query    int    false "筆數上限 (1-10000)" default(10000)
// @Param       offset     query    int    false "起始位移" default(0)
// @Success     200        {file}   binary
// @Failure     400        {object} api.ErrorResponse
// @Failure     401        {object} api.ErrorResponse
// @Failure     403        {object} api.ErrorResponse
// @Failure     404        {object} api.ErrorResponse
// @Failure     500        {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /reports/export [get]
func ExportHandler(db database.DB, tempDir string, pool worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		params, q, err := bindQuery(c, db, defaultExportLimit)
		if err != nil {
			return respond(c, err)
		}
		format, err := export.ParseFormat(params.Format)
		if err != nil {
			return respond(c, &httpError{http.StatusBadRequest, "Invalid format, expected xlsx or csv"})
		}
		mode, err := export.ParseGroupMode(params.GroupBy)
		if err != nil {
			return respond(c, &httpError{http.StatusBadRequest, "Invalid group_by, expected Ngày or Tuần"})
		}

		rows, err := listReports(c.Request().Context(), db, q)
		if err != nil {
			return respond(c, err)
		}

		res, err := renderExport(tempDir, rows, mode, format)
		if err != nil {
			return respond(c, err)
		}
		defer worker.RemoveFile(pool, res.Path, c.Logger())

		observeExport(string(res.Format), res.Rows)
		c.Response().Header().Set(echo.HeaderContentType, res.ContentType)
		return c.Attachment(res.Path, res.Filename)
	}
}
