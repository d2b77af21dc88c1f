package model

// EvalStatus is a single row of a jobset's evaluation list.
type EvalStatus struct {
	Icon StatusIcon `json:"icon"`
	// Finished is true iff no job of the evaluation is queued
	Finished *bool   `json:"finished,omitempty"`
	ID       *uint64 `json:"id,omitempty"`
	URL      *string `json:"url,omitempty"`
	Datetime *string `json:"datetime,omitempty"`
	// Human readable relative time, e.g. "2h ago"
	Relative *string `json:"relative,omitempty"`
	// Unix time of the evaluation
	Timestamp *uint64 `json:"timestamp,omitempty"`
	Status    string  `json:"status"`
	// Abbreviated revision of the main input
	ShortRev *string `json:"short_rev,omitempty"`
	// What changed from the previous evaluation
	InputChanges *string `json:"input_changes,omitempty"`
	Succeeded    *uint64 `json:"succeeded,omitempty"`
	Failed       *uint64 `json:"failed,omitempty"`
	Queued       *uint64 `json:"queued,omitempty"`
	// Signed change of the queued count from the previous row, e.g. "+12"
	Delta *string `json:"delta,omitempty"`
}

// NewEvalPlaceholder returns an error placeholder carrying msg.
func NewEvalPlaceholder(msg string) EvalStatus {
	return EvalStatus{
		Icon:   IconWarning,
		Status: msg,
	}
}

// EvalInput is a row of an evaluation's (or a build's) inputs table.
// Any cell may be empty.
type EvalInput struct {
	Name      *string `json:"name,omitempty"`
	InputType *string `json:"type,omitempty"`
	Value     *string `json:"value,omitempty"`
	Revision  *string `json:"revision,omitempty"`
	StorePath *string `json:"store_path,omitempty"`
}

// RevPair is an (old, new) pair of revisions.
type RevPair [2]string

// EvalInputChanges describes how an input changed from the previous evaluation.
type EvalInputChanges struct {
	Input       string  `json:"input"`
	Description string  `json:"description"`
	URL         *string `json:"url,omitempty"`
	// Full revisions, from the rev1/rev2 parameters of the diff link
	Revs *RevPair `json:"revs,omitempty"`
	// Abbreviated revisions, from the "<rev> to <rev>" description
	ShortRevs *RevPair `json:"short_revs,omitempty"`
}

// EvalDetails is everything read from a single evaluation page.
type EvalDetails struct {
	ID     uint64  `json:"id"`
	Filter *string `json:"filter,omitempty"`
	URL    string  `json:"url"`
	// Set when the page had no inputs table; the message explains why
	Error *string `json:"error,omitempty"`

	Inputs       []EvalInput        `json:"inputs"`
	Changes      []EvalInputChanges `json:"changes"`
	Aborted      []BuildStatus      `json:"aborted"`
	NowFail      []BuildStatus      `json:"now_fail"`
	NowSucceed   []BuildStatus      `json:"now_succeed"`
	New          []BuildStatus      `json:"new"`
	Removed      []BuildStatus      `json:"removed"`
	StillFail    []BuildStatus      `json:"still_fail"`
	StillSucceed []BuildStatus      `json:"still_succeed"`
	Unfinished   []BuildStatus      `json:"unfinished"`
}

// Bucket is a named group of builds of an evaluation.
type Bucket struct {
	// Name as used in the page's tab id, e.g. "now-fail"
	Name   string
	Title  string
	Builds *[]BuildStatus
}

// Buckets returns the build groups of d in page order.
func (d *EvalDetails) Buckets() []Bucket {
	return []Bucket{
		{Name: "aborted", Title: "Aborted / Timed out", Builds: &d.Aborted},
		{Name: "now-fail", Title: "Newly failing", Builds: &d.NowFail},
		{Name: "now-succeed", Title: "Newly succeeding", Builds: &d.NowSucceed},
		{Name: "new", Title: "New jobs", Builds: &d.New},
		{Name: "removed", Title: "Removed jobs", Builds: &d.Removed},
		{Name: "still-fail", Title: "Still failing", Builds: &d.StillFail},
		{Name: "still-succeed", Title: "Still succeeding", Builds: &d.StillSucceed},
		{Name: "unfinished", Title: "Queued jobs", Builds: &d.Unfinished},
	}
}
