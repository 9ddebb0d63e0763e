package shared

import "time"

const (
	RESULT_OK    = "ok"
	RESULT_ERROR = "error"
)

// RunReport summarizes a single install or remove run
type RunReport struct {
	RunID     string    `json:"run_id"`
	Action    string    `json:"action"` // install, remove
	Version   string    `json:"version"`
	Hostname  string    `json:"hostname"`
	Platform  string    `json:"platform"`
	Command   string    `json:"command"`   // Redacted
	Installed bool      `json:"installed"` // Agent present after an install
	Skipped   bool      `json:"skipped"`   // Installer/uninstaller not run
	Result    string    `json:"result"`
	Error     string    `json:"error,omitempty"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished"`
}

func NewRunReport(action, version string) *RunReport {
	return &RunReport{
		Action:  action,
		Version: version,
		Started: time.Now().UTC(),
	}
}

func (r *RunReport) Finish(err error) {
	r.Finished = time.Now().UTC()
	r.Result = RESULT_OK
	if err != nil {
		r.Result = RESULT_ERROR
		r.Error = err.Error()
	}
}
