package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	lifecycleMetricsOnce     sync.Once
	lifecycleMetricsInstance *LifecycleMetrics
)

// LifecycleMetrics holds the Prometheus collectors for file lifecycle
// operations. All methods are safe on a nil receiver so callers need not
// check whether metrics were initialized.
type LifecycleMetrics struct {
	OperationsTotal   *prometheus.CounterVec   // droply_lifecycle_operations_total{operation,status}
	OperationDuration *prometheus.HistogramVec // droply_lifecycle_operation_duration_seconds{operation}

	NodesDeleted prometheus.Counter     // droply_nodes_deleted_total
	BlobCleanup  *prometheus.CounterVec // droply_blob_cleanup_total{result}

	UploadsTotal prometheus.Counter // droply_uploads_total
	UploadBytes  prometheus.Counter // droply_upload_bytes_total
}

// InitLifecycleMetrics registers the collectors once; later calls return the
// same instance regardless of registry.
func InitLifecycleMetrics(registry prometheus.Registerer) *LifecycleMetrics {
	lifecycleMetricsOnce.Do(func() {
		if registry == nil {
			registry = prometheus.DefaultRegisterer
		}
		factory := promauto.With(registry)
		lifecycleMetricsInstance = &LifecycleMetrics{
			OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "droply_lifecycle_operations_total",
				Help: "Lifecycle operations by operation and status",
			}, []string{"operation", "status"}),

			OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "droply_lifecycle_operation_duration_seconds",
				Help:    "Lifecycle operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			}, []string{"operation"}),

			NodesDeleted: factory.NewCounter(prometheus.CounterOpts{
				Name: "droply_nodes_deleted_total",
				Help: "File and folder records permanently deleted",
			}),

			BlobCleanup: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "droply_blob_cleanup_total",
				Help: "Blob cleanup attempts by result",
			}, []string{"result"}),

			UploadsTotal: factory.NewCounter(prometheus.CounterOpts{
				Name: "droply_uploads_total",
				Help: "Completed file uploads",
			}),

			UploadBytes: factory.NewCounter(prometheus.CounterOpts{
				Name: "droply_upload_bytes_total",
				Help: "Bytes accepted by file uploads",
			}),
		}
	})
	return lifecycleMetricsInstance
}

// Get returns the singleton, or nil when InitLifecycleMetrics was never called.
func Get() *LifecycleMetrics {
	return lifecycleMetricsInstance
}

func (m *LifecycleMetrics) RecordOperation(operation, status string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(durationSeconds)
}

func (m *LifecycleMetrics) RecordNodesDeleted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.NodesDeleted.Add(float64(n))
}

// RecordBlobCleanup counts one cleanup attempt. result is one of "deleted",
// "failed", "skipped" or "requeued".
func (m *LifecycleMetrics) RecordBlobCleanup(result string) {
	if m == nil {
		return
	}
	m.BlobCleanup.WithLabelValues(result).Inc()
}

func (m *LifecycleMetrics) RecordUpload(bytes int64) {
	if m == nil {
		return
	}
	m.UploadsTotal.Inc()
	m.UploadBytes.Add(float64(bytes))
}
