package domain

// SyncAction is the per-entity outcome of a sync step.
type SyncAction string

const (
	ActionCreated SyncAction = "created"
	ActionUpdated SyncAction = "updated"
	ActionSkipped SyncAction = "skipped"
	ActionError   SyncAction = "error"
)

// SyncResult is the ephemeral outcome of syncing one entity.
type SyncResult struct {
	Entity string     `json:"entity"`
	Action SyncAction `json:"action"`
	Detail string     `json:"detail,omitempty"`
}

// SyncSummary aggregates the results of a full sync pass.
type SyncSummary struct {
	Created int          `json:"created"`
	Updated int          `json:"updated"`
	Skipped int          `json:"skipped"`
	Errors  int          `json:"errors"`
	Results []SyncResult `json:"results"`
}

// Add records a result in the summary.
func (s *SyncSummary) Add(r SyncResult) {
	s.Results = append(s.Results, r)
	switch r.Action {
	case ActionCreated:
		s.Created++
	case ActionUpdated:
		s.Updated++
	case ActionSkipped:
		s.Skipped++
	case ActionError:
		s.Errors++
	}
}
