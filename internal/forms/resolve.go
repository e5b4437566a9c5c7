package forms

import "job-board-api/internal/models"

// Source says which rule picked the form for a job.
type Source string

const (
	SourceJob     Source = "job"     // the job's own form reference
	SourceBound   Source = "bound"   // a form bound to the job through its job_id
	SourceDefault Source = "default" // the system-wide default form
	SourceNone    Source = "none"
)

// NoFormMessage is shown to applicants when a job has no form at all.
const NoFormMessage = "No application form available"

// Resolution is the outcome of choosing a form for a job. Form is nil when Source is SourceNone.
type Resolution struct {
	Form   *models.Form
	Source Source
}

func (r Resolution) Available() bool { return r.Form != nil }
