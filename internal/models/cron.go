package models

// CronEntry is one non-comment line of the user crontab.
// Index is the position among active entries and is what edit/delete
// operations address; the crontab itself remains the state of record.
type CronEntry struct {
	Index       int    `json:"index"`
	Schedule    string `json:"schedule"`
	Command     string `json:"command"`
	Description string `json:"description"`
}

// CronJobRequest carries a new or updated crontab entry
type CronJobRequest struct {
	Schedule string `json:"schedule" binding:"required"`
	Command  string `json:"command" binding:"required"`
}

// SchedulePreview is the human-readable rendering of a schedule expression
type SchedulePreview struct {
	Schedule    string `json:"schedule"`
	Valid       bool   `json:"valid"`
	Description string `json:"description"`
	Error       string `json:"error,omitempty"`
}
