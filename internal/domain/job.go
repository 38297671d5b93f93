package domain

import "time"

// TranscriptionJobHandle correlates an external transcription job with an artifact.
type TranscriptionJobHandle struct {
	JobName      string    `json:"job_name"`
	RecordingKey string    `json:"recording_key"`
	StartedAt    time.Time `json:"started_at"`
}

// TranscriptionJobRequest is submitted to the transcription service.
// Empty LanguageCode requests language identification.
type TranscriptionJobRequest struct {
	JobName         string
	MediaURI        string
	MediaFormat     string
	LanguageCode    string
	LanguageOptions []string
	OutputBucket    string
	OutputKey       string
}

// TranscriptionJobResult is the decoded state of a transcription job.
type TranscriptionJobResult struct {
	JobName       string                 `json:"job_name"`
	Status        TranscriptionJobStatus `json:"status"`
	TranscriptURI string                 `json:"transcript_uri,omitempty"`
	Language      string                 `json:"language,omitempty"`
	FailureReason string                 `json:"failure_reason,omitempty"`
}

// SummarizationRequest is submitted to the summarization model.
type SummarizationRequest struct {
	ModelID     string
	Prompt      string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// SummarizationJobResult is the decoded model response.
type SummarizationJobResult struct {
	OutputText   string
	InputTokens  int
	OutputTokens int
	StopReason   string
}

// StorageEvent is an object-created notification with one or more records.
type StorageEvent struct {
	Records []StorageEventRecord `json:"Records"`
}

// StorageEventRecord names one created object.
type StorageEventRecord struct {
	EventName string `json:"eventName,omitempty"`
	S3        struct {
		Bucket struct {
			Name string `json:"name"`
		} `json:"bucket"`
		Object struct {
			Key  string `json:"key"`
			Size int64  `json:"size,omitempty"`
		} `json:"object"`
	} `json:"s3"`
}

// Bucket returns the bucket name of the record.
func (r StorageEventRecord) Bucket() string { return r.S3.Bucket.Name }

// Key returns the raw, possibly percent-encoded object key.
func (r StorageEventRecord) Key() string { return r.S3.Object.Key }
