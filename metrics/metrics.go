package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OpalRows = promauto.NewCounter(prometheus.CounterOpts{
		Name: "datahub_opal_rows_total",
		Help: "Opal telemetry rows upserted.",
	})
	DSRRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "datahub_dsr_records_total",
		Help: "DSR records appended.",
	})
	WesimLoads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "datahub_wesim_loads_total",
		Help: "Wesim workbook loads (cache fills).",
	})
	Resets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "datahub_resets_total",
		Help: "Full data resets triggered by model_ready.",
	})
)
