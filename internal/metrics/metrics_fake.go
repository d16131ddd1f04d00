package metrics

// metricsFake is a no-op implementation of Metrics,
// used when InfluxDB is not configured.
type metricsFake struct{}

// Ensure metricsFake implements Metrics
var _ Metrics = (*metricsFake)(nil)

// NewMetricsFake creates an instance of the no-op metrics logger
func NewMetricsFake() Metrics {
	return &metricsFake{}
}

// LogEvent is a no-op
func (metrics *metricsFake) LogEvent(_ string, _ map[string]string, _ map[string]interface{}) {
	// No operation, this is a fake logger
}

// LogChatEvent is a no-op
func (metrics *metricsFake) LogChatEvent(_ string, _ int64, _ map[string]interface{}) {
	// No operation, this is a fake logger
}

// Close is a no-op
func (metrics *metricsFake) Close() {
	// No operation, this is a fake logger
}
