// Package metrics exposes the Prometheus counters and histograms this
// module's octrees report through, grounded on the metrics style used
// elsewhere in the retrieval pack for a long-lived stateful component
// (aukilabs-hagall's receipt package): a handful of promauto-registered
// vectors, incremented at the decision points that matter operationally
// rather than on every per-item comparison.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const treeKindLabel = "tree_kind"
const queryKindLabel = "query_kind"

var (
	nodeSplits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "octree3_node_splits_total",
		Help: "The number of leaf-to-internal node splits performed.",
	}, []string{treeKindLabel})

	nodeMerges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "octree3_node_merges_total",
		Help: "The number of internal-to-leaf node merges performed.",
	}, []string{treeKindLabel})

	rootGrows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "octree3_root_grows_total",
		Help: "The number of times a container doubled its root.",
	}, []string{treeKindLabel})

	rootShrinks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "octree3_root_shrinks_total",
		Help: "The number of times a container replaced its root with a single child.",
	}, []string{treeKindLabel})

	addOverflows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "octree3_add_overflow_total",
		Help: "The number of insertions dropped after exhausting grow attempts.",
	}, []string{treeKindLabel})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "octree3_query_duration_seconds",
		Help: "The time spent walking a tree to answer a query.",
	}, []string{treeKindLabel, queryKindLabel})
)

// RecordSplit records a leaf-to-internal split on the given tree kind
// ("bounds" or "point").
func RecordSplit(treeKind string) {
	nodeSplits.WithLabelValues(treeKind).Inc()
}

// RecordMerge records an internal-to-leaf merge.
func RecordMerge(treeKind string) {
	nodeMerges.WithLabelValues(treeKind).Inc()
}

// RecordGrow records a root doubling.
func RecordGrow(treeKind string) {
	rootGrows.WithLabelValues(treeKind).Inc()
}

// RecordShrink records a root replaced by a child.
func RecordShrink(treeKind string) {
	rootShrinks.WithLabelValues(treeKind).Inc()
}

// RecordAddOverflow records an insertion dropped after MaxGrowAttempts.
func RecordAddOverflow(treeKind string) {
	addOverflows.WithLabelValues(treeKind).Inc()
}

// ObserveQuery times a query of the given kind ("bounds", "ray",
// "radius") on the given tree kind. Call it with defer:
//
//	defer metrics.ObserveQuery("bounds", "ray")()
func ObserveQuery(treeKind, queryKind string) func() {
	start := time.Now()
	return func() {
		queryDuration.WithLabelValues(treeKind, queryKind).Observe(time.Since(start).Seconds())
	}
}
