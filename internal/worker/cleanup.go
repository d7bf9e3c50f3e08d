package worker

import (
	"os"

	"github.com/labstack/echo/v4"
)

var removeFile = os.Remove

// RemoveFile 將刪除暫存檔的工作交給 pool；pool 已停止時直接刪除
func RemoveFile(p Pool, path string, logger echo.Logger) {
	task := func() {
		if err := removeFile(path); err != nil && !os.IsNotExist(err) {
			logger.Warnf("remove temp file %s: %v", path, err)
		}
	}
	if p == nil || !p.Submit(task) {
		task()
	}
}
