// File: cmd/service/main.go
// @title        Kiosk Report API
// @version      1.0
// @description  列印紀錄報表與匯出的後端 API 文件
// @BasePath     /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import "log"

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
