// Package model contains the records extracted from Hydra's web pages.
// Optional fields are pointers and are left out of the JSON output when nil.
package model

// BuildStatus is a single row of a builds table, e.g. on a job page or in one
// of the tabs of an evaluation page.
//
// A BuildStatus is exactly one of: a finished build (Evals is true and all
// detail fields are set), a queued placeholder (Icon is IconQueued), or an
// error placeholder (Icon is IconWarning). Placeholders carry their
// explanation in Status and have no details.
type BuildStatus struct {
	Icon StatusIcon `json:"icon"`
	// Success is true iff Hydra reported the build as "Succeeded"
	Success bool `json:"success"`
	// Hydra's status text, or a synthesized explanation for placeholders
	Status string `json:"status"`
	// Build time, as found in the datetime attribute of the row
	Timestamp *string `json:"timestamp,omitempty"`
	BuildID   *string `json:"build_id,omitempty"`
	BuildURL  *string `json:"build_url,omitempty"`
	// Derivation name, e.g. "hello-2.12.1"
	Name *string `json:"name,omitempty"`
	// System, e.g. "x86_64-linux"
	Arch *string `json:"arch,omitempty"`
	// Evals is true iff the record comes from a finished build row
	Evals bool `json:"evals"`
	// Job name, only set for tables listing several jobs
	JobName *string `json:"job_name,omitempty"`
}

// NewBuildPlaceholder returns an error placeholder carrying msg.
func NewBuildPlaceholder(msg string) BuildStatus {
	return BuildStatus{
		Icon:   IconWarning,
		Status: msg,
	}
}

// IsPlaceholder reports whether b stands in for a table that could not be read.
func (b BuildStatus) IsPlaceholder() bool {
	return !b.Evals && b.Icon == IconWarning
}
