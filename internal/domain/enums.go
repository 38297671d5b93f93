package domain

// ArtifactStatus is the lifecycle state of a meeting artifact.
type ArtifactStatus string

const (
	StatusUploaded     ArtifactStatus = "UPLOADED"
	StatusTranscribing ArtifactStatus = "TRANSCRIBING"
	StatusTranscribed  ArtifactStatus = "TRANSCRIBED"
	StatusSummarizing  ArtifactStatus = "SUMMARIZING"
	StatusSummarized   ArtifactStatus = "SUMMARIZED"
	StatusFailed       ArtifactStatus = "FAILED"
)

func (s ArtifactStatus) String() string { return string(s) }

func (s ArtifactStatus) IsValid() bool {
	switch s {
	case StatusUploaded, StatusTranscribing, StatusTranscribed,
		StatusSummarizing, StatusSummarized, StatusFailed:
		return true
	}
	return false
}

// IsProcessing reports whether a pipeline stage is expected to move the
// artifact forward without client action.
func (s ArtifactStatus) IsProcessing() bool {
	switch s {
	case StatusUploaded, StatusTranscribing, StatusSummarizing:
		return true
	}
	return false
}

// IsTerminal reports SUMMARIZED and FAILED.
func (s ArtifactStatus) IsTerminal() bool {
	return s == StatusSummarized || s == StatusFailed
}

// HasTranscript reports the states in which a transcript key may be set.
func (s ArtifactStatus) HasTranscript() bool {
	switch s {
	case StatusTranscribed, StatusSummarizing, StatusSummarized:
		return true
	}
	return false
}

// TranscriptionJobStatus is the state of an external transcription job.
type TranscriptionJobStatus string

const (
	TranscriptionInProgress TranscriptionJobStatus = "IN_PROGRESS"
	TranscriptionCompleted  TranscriptionJobStatus = "COMPLETED"
	TranscriptionFailed     TranscriptionJobStatus = "FAILED"
)

func (s TranscriptionJobStatus) String() string { return string(s) }
