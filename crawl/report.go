package crawl

// Level names a depth in the site hierarchy.
type Level string

// Hierarchy levels, from the site root down to media assets.
const (
	LevelSite        Level = "site"
	LevelCategory    Level = "category"
	LevelSubcategory Level = "subcategory"
	LevelGroup       Level = "group"
	LevelCase        Level = "case"
	LevelAsset       Level = "asset"
)

// NodeState is the lifecycle state of a visited node.
type NodeState int

const (
	NodePending NodeState = iota
	NodeFetching
	NodeExtracting
	NodeSucceeded
	NodeSkipped
)

// String returns the lowercase state name.
func (s NodeState) String() string {
	switch s {
	case NodePending:
		return "pending"
	case NodeFetching:
		return "fetching"
	case NodeExtracting:
		return "extracting"
	case NodeSucceeded:
		return "succeeded"
	case NodeSkipped:
		return "skipped"
	}
	return "unknown"
}

// NodeOutcome records where a node's processing ended. Err is set for
// skipped nodes and for the node that was in flight when a run aborted.
type NodeOutcome struct {
	Level Level
	URL   string
	Name  string
	State NodeState
	Err   error
}

// Report summarises a run.
type Report struct {
	RunID      string
	Cases      int
	Rows       int
	Assets     int
	Unresolved int
	Outcomes   []NodeOutcome
}

// Skipped returns the outcomes of nodes that were skipped.
func (r *Report) Skipped() []NodeOutcome {
	var skipped []NodeOutcome
	for _, o := range r.Outcomes {
		if o.State == NodeSkipped {
			skipped = append(skipped, o)
		}
	}
	return skipped
}

// Interrupted returns the innermost node still in flight when the run
// aborted.
func (r *Report) Interrupted() (NodeOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.State != NodeSucceeded && o.State != NodeSkipped {
			return o, true
		}
	}
	return NodeOutcome{}, false
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type  ProgressType
	Level Level
	URL   string
	Rows  int
	Err   error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressSucceeded
	ProgressSkipped
	ProgressRowsWritten
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)
