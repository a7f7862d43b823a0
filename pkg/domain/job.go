package domain

import "time"

// JobStatus represents the state of an analysis job
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions are possible
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// Job is one run of the collect-then-summarize pipeline
type Job struct {
	ID                int64      `json:"id"`
	Status            JobStatus  `json:"status"`
	Progress          int        `json:"progress"`
	CurrentStep       *string    `json:"current_step"`
	MessagesCollected *int       `json:"messages_collected"`
	ChannelsProcessed *int       `json:"channels_processed"`
	Report            *Report    `json:"report"`
	Error             *string    `json:"error"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at"`
}

// Running reports whether pollers should keep polling
func (j *Job) Running() bool {
	return !j.Status.Terminal()
}

// Duration returns the elapsed run time, up to completion for terminal jobs
func (j *Job) Duration() time.Duration {
	if j.CompletedAt != nil {
		return j.CompletedAt.Sub(j.StartedAt)
	}
	return time.Since(j.StartedAt)
}

// JobProgress is a non-terminal checkpoint written by the pipeline.
// Nil fields are left unchanged.
type JobProgress struct {
	Status            JobStatus
	Progress          int
	Step              string
	MessagesCollected *int
	ChannelsProcessed *int
}
