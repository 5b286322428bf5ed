// Package observability exposes a minimal plain-text metrics endpoint,
// the same shape the teacher used for its git-pack counters, retargeted
// at the scm parser/driver and function-sync operations.
package observability

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

var (
	driverInvocations   uint64
	driverFailures      uint64
	driverDurationMs    uint64
	parseFailures       uint64
	syncTriggersRuns    uint64
	syncTriggersPosted  uint64
	syncTriggersSkipped uint64
)

// RegisterMetrics mounts the /metrics endpoint on mux.
func RegisterMetrics(mux *http.ServeMux) {
	mux.HandleFunc("/metrics", MetricsHTTPHandler())
}

// MetricsHTTPHandler renders the current counters as plain text.
func MetricsHTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "scmcore_driver_invocations %d\n", atomic.LoadUint64(&driverInvocations))
		fmt.Fprintf(w, "scmcore_driver_failures %d\n", atomic.LoadUint64(&driverFailures))
		fmt.Fprintf(w, "scmcore_driver_duration_ms_total %d\n", atomic.LoadUint64(&driverDurationMs))
		fmt.Fprintf(w, "scmcore_parse_failures %d\n", atomic.LoadUint64(&parseFailures))
		fmt.Fprintf(w, "scmcore_sync_triggers_runs %d\n", atomic.LoadUint64(&syncTriggersRuns))
		fmt.Fprintf(w, "scmcore_sync_triggers_posted %d\n", atomic.LoadUint64(&syncTriggersPosted))
		fmt.Fprintf(w, "scmcore_sync_triggers_skipped %d\n", atomic.LoadUint64(&syncTriggersSkipped))
	}
}

// RecordDriverInvocation records one command-driver execution.
func RecordDriverInvocation(d time.Duration, failed bool) {
	atomic.AddUint64(&driverInvocations, 1)
	atomic.AddUint64(&driverDurationMs, uint64(d.Milliseconds()))
	if failed {
		atomic.AddUint64(&driverFailures, 1)
	}
}

// RecordParseFailure records one parser-level failure (UnsupportedStatus
// or ParseError, per the error taxonomy).
func RecordParseFailure() {
	atomic.AddUint64(&parseFailures, 1)
}

// RecordSyncTriggers records the outcome of one sync_triggers run:
// posted is true when the aggregate was non-empty and POSTed, false when
// it short-circuited (absent host.json or empty aggregate).
func RecordSyncTriggers(posted bool) {
	atomic.AddUint64(&syncTriggersRuns, 1)
	if posted {
		atomic.AddUint64(&syncTriggersPosted, 1)
	} else {
		atomic.AddUint64(&syncTriggersSkipped, 1)
	}
}
