package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(workerJobsTotal, notificationsTotal) }

var (
	workerJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_total",
			Help: "Background jobs handled by the worker pool, labeled by status.",
		},
		[]string{"status"}, // 'completed', 'failed', 'dropped'
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Operator notifications by channel and status.",
		},
		[]string{"channel", "status"},
	)
)

func IncWorkerJob(status string) {
	workerJobsTotal.WithLabelValues(norm(status)).Inc()
}

func IncNotification(channel, status string) {
	notificationsTotal.WithLabelValues(norm(channel), norm(status)).Inc()
}
