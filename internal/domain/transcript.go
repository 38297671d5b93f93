package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultSpeaker tags every segment; diarization is not performed.
const DefaultSpeaker = "spk_0"

// Transcript is the normalized transcript stored at the transcript key.
type Transcript struct {
	Language    string              `json:"language"`
	DurationSec float64             `json:"duration_sec"`
	Segments    []TranscriptSegment `json:"segments"`
	FullText    string              `json:"full_text"`
}

// TranscriptSegment is a timed span of speech.
type TranscriptSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
}

// Validate checks all fields and collects all errors.
func (t Transcript) Validate() error {
	var errs []FieldError
	if t.DurationSec < 0 {
		errs = append(errs, FieldError{Field: "duration_sec", Message: "must be non-negative"})
	}
	if t.Segments == nil {
		errs = append(errs, FieldError{Field: "segments", Message: "required"})
	}
	for i, seg := range t.Segments {
		if seg.End < seg.Start {
			errs = append(errs, FieldError{Field: fmt.Sprintf("segments[%d]", i), Message: "end before start"})
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// RawTranscript is the output document of a transcription job.
type RawTranscript struct {
	JobName string `json:"jobName"`
	Results *struct {
		LanguageCode string `json:"language_code"`
		Transcripts  []struct {
			Transcript string `json:"transcript"`
		} `json:"transcripts"`
		Items []RawTranscriptItem `json:"items"`
	} `json:"results"`
}

// RawTranscriptItem is one recognized token. Punctuation items carry no timing.
type RawTranscriptItem struct {
	Type         string `json:"type"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Alternatives []struct {
		Confidence string `json:"confidence"`
		Content    string `json:"content"`
	} `json:"alternatives"`
}

// ParseRawTranscript decodes a transcription job output document.
func ParseRawTranscript(data []byte) (*RawTranscript, error) {
	var raw RawTranscript
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode raw transcript: %w", err)
	}
	if raw.Results == nil {
		return nil, fmt.Errorf("decode raw transcript: missing results")
	}
	return &raw, nil
}

// Normalize converts the raw document into a single-speaker Transcript.
// Duration spans the first to the last timed token. language overrides the
// language reported by the job when non-empty.
func (r *RawTranscript) Normalize(language string) (Transcript, error) {
	if language == "" {
		language = r.Results.LanguageCode
	}

	var texts []string
	for _, t := range r.Results.Transcripts {
		if s := strings.TrimSpace(t.Transcript); s != "" {
			texts = append(texts, s)
		}
	}
	fullText := strings.Join(texts, " ")

	var (
		first, last float64
		timed       bool
	)
	for i, item := range r.Results.Items {
		if item.StartTime == "" || item.EndTime == "" {
			continue
		}
		start, err := strconv.ParseFloat(item.StartTime, 64)
		if err != nil {
			return Transcript{}, fmt.Errorf("item %d start_time %q: %w", i, item.StartTime, err)
		}
		end, err := strconv.ParseFloat(item.EndTime, 64)
		if err != nil {
			return Transcript{}, fmt.Errorf("item %d end_time %q: %w", i, item.EndTime, err)
		}
		if !timed {
			first = start
			timed = true
		}
		last = end
	}

	duration := 0.0
	if timed && last > first {
		duration = last - first
	}

	segments := []TranscriptSegment{}
	if fullText != "" {
		segments = append(segments, TranscriptSegment{
			Start:   first,
			End:     last,
			Speaker: DefaultSpeaker,
			Text:    fullText,
		})
	}

	return Transcript{
		Language:    language,
		DurationSec: duration,
		Segments:    segments,
		FullText:    fullText,
	}, nil
}
