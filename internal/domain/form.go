package domain

// FormState is the ephemeral state of the form-and-progress view
type FormState struct {
	AttemptID             string   `json:"attempt_id,omitempty"`
	Link                  string   `json:"link"`
	Platform              Platform `json:"platform"`
	DownloadReference     string   `json:"download_reference,omitempty"`
	ProgressPercent       int      `json:"progress_percent"`
	ProgressIndeterminate bool     `json:"progress_indeterminate"`
	BytesReceived         int64    `json:"bytes_received"`
	TotalBytes            int64    `json:"total_bytes"`
	IsSubmitting          bool     `json:"is_submitting"`
	IsDownloading         bool     `json:"is_downloading"`
	ErrorText             string   `json:"error_text,omitempty"`
	StatusText            string   `json:"status_text,omitempty"`
	SavedPath             string   `json:"saved_path,omitempty"`
}

// NewFormState returns the state of a freshly opened form
func NewFormState() FormState {
	return FormState{Platform: PlatformYouTube}
}

// Ready checks if a download reference is available
func (s FormState) Ready() bool {
	return s.DownloadReference != ""
}

// ShowDownloadControl reports whether the manual download control is visible
func (s FormState) ShowDownloadControl() bool {
	return s.Ready() && !s.IsDownloading
}

// SetError shows an error and hides any status message
func (s *FormState) SetError(text string) {
	s.ErrorText = text
	s.StatusText = ""
}

// SetStatus shows a status message and hides any error
func (s *FormState) SetStatus(text string) {
	s.StatusText = text
	s.ErrorText = ""
}

// ResetForSubmit clears everything a new submission starts over with
func (s *FormState) ResetForSubmit(attemptID, link string, platform Platform) {
	s.AttemptID = attemptID
	s.Link = link
	s.Platform = platform
	s.ErrorText = ""
	s.StatusText = ""
	s.DownloadReference = ""
	s.ProgressPercent = 0
	s.ProgressIndeterminate = false
	s.BytesReceived = 0
	s.TotalBytes = 0
}

// ApplyProgress copies a progress report into the state
func (s *FormState) ApplyProgress(p Progress) {
	s.BytesReceived = p.Received
	s.TotalBytes = p.Total
	s.ProgressIndeterminate = !p.Known()
	if p.Percent > s.ProgressPercent {
		s.ProgressPercent = p.Percent
	}
}
