package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kiosk"

var (
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "logins_total", Help: "Login attempts by result."},
		[]string{"result"},
	)
	Exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "exports_total", Help: "Dashboard exports by format."},
		[]string{"format"},
	)
	ExportRows = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "export_rows",
		Help:      "Report rows included in one export.",
		Buckets:   []float64{0, 10, 100, 1000, 5000, 10000},
	})
)

// login 結果標籤
const (
	LoginSuccess   = "success"
	LoginFailure   = "failure"
	LoginThrottled = "throttled"
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(Logins)
	reg.MustRegister(Exports)
	reg.MustRegister(ExportRows)
}

// ObserveExport 記錄一次匯出
func ObserveExport(format string, rows int) {
	Exports.WithLabelValues(format).Inc()
	ExportRows.Observe(float64(rows))
}
