package types

// BuildMode is how the fact materializer refreshed the serving table.
type BuildMode string

const (
	// BuildFull recomputes and persists every monthly indicator row.
	BuildFull BuildMode = "FULL"
	// BuildIncremental appends only rows strictly newer than the watermark.
	BuildIncremental BuildMode = "INCREMENTAL"
)

// NodeStatus is the outcome of one transform node within a run.
type NodeStatus string

const (
	NodePending NodeStatus = "PENDING"
	NodeRan     NodeStatus = "RAN"
	NodeSkipped NodeStatus = "SKIPPED"
	NodeFailed  NodeStatus = "FAILED"
)

// CheckSeverity classifies a data-quality violation. Violations are advisory:
// they are surfaced to operators, never a pipeline abort.
type CheckSeverity string

const (
	SeverityWarning CheckSeverity = "WARNING"
	SeverityError   CheckSeverity = "ERROR"
)

// Frequency is the reporting cadence of a source dataset.
type Frequency string

const (
	FrequencyAnnual  Frequency = "ANNUAL"
	FrequencyMonthly Frequency = "MONTHLY"
)
