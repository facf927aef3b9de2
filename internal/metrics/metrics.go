// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	RunsTotal              = expvar.NewInt("runs_total")
	RunsFailed             = expvar.NewInt("runs_failed")
	NodesRan               = expvar.NewInt("nodes_ran")
	NodesSkipped           = expvar.NewInt("nodes_skipped")
	NodesFailed            = expvar.NewInt("nodes_failed")
	RecordsStaged          = expvar.NewInt("records_staged")
	FactsAppended          = expvar.NewInt("facts_appended")
	SnapshotVersionsOpened = expvar.NewInt("snapshot_versions_opened")
	SnapshotVersionsClosed = expvar.NewInt("snapshot_versions_closed")
	SnapshotHardDeletes    = expvar.NewInt("snapshot_hard_deletes")
	QualityViolations      = expvar.NewInt("quality_violations")
)
