// Package paths maps meeting identifiers to storage keys and back.
package paths

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

const (
	RecordingsPrefix  = "recordings/"
	TranscriptsPrefix = "transcripts/"
	SummariesPrefix   = "summaries/"
	RawOutputPrefix   = "transcripts/raw/"

	// MaxJobNameLength is the transcription service job-name limit.
	MaxJobNameLength = 200
	// MaxExecutionNameLength is the workflow execution-name limit.
	MaxExecutionNameLength = 80
)

// Paths holds the canonical storage locations of one meeting.
type Paths struct {
	RecordingKey           string
	TranscriptKey          string
	SummaryKey             string
	TranscriptOutputPrefix string
}

// Derive returns the storage keys for id. ext includes the leading dot.
func Derive(id domain.MeetingIdentifier, ext string) Paths {
	folder := id.OwnerEmail + "/" + id.Folder() + "/"
	return Paths{
		RecordingKey:           RecordingsPrefix + folder + id.Basename + ext,
		TranscriptKey:          TranscriptsPrefix + folder + id.Basename + ".json",
		SummaryKey:             SummariesPrefix + folder + id.Basename + ".json",
		TranscriptOutputPrefix: RawOutputPrefix + folder,
	}
}

// recordingKeyRe captures owner, folder, basename and the last extension.
var recordingKeyRe = regexp.MustCompile(`^recordings/([^/]+)/([^/]+)/([^/]+)(\.[^./]+)$`)

// ParseEventKey parses a recording key as delivered by storage
// notifications, which form-encode keys ("+" for space, "%40" for "@").
// It is only for keys entering from events; canonical keys handed between
// stages go through ParseRecordingKey.
func ParseEventKey(key string) (domain.MeetingIdentifier, string, error) {
	decoded, err := url.QueryUnescape(key)
	if err != nil {
		return domain.MeetingIdentifier{}, "", fmt.Errorf("%w: %q: %v", domain.ErrInvalidKeyFormat, key, err)
	}
	return ParseRecordingKey(decoded)
}

// ParseRecordingKey is the exact inverse of Derive(...).RecordingKey. The
// key is taken literally, so "+" and "%" survive.
func ParseRecordingKey(key string) (domain.MeetingIdentifier, string, error) {
	m := recordingKeyRe.FindStringSubmatch(key)
	if m == nil {
		return domain.MeetingIdentifier{}, "", fmt.Errorf("%w: %q", domain.ErrInvalidKeyFormat, key)
	}
	owner, folder, basename, ext := m[1], m[2], m[3], m[4]

	if strings.Count(folder, domain.FolderSeparator) != 1 {
		return domain.MeetingIdentifier{}, "", fmt.Errorf("%w: folder %q must be name_date", domain.ErrInvalidKeyFormat, folder)
	}
	name, date, _ := strings.Cut(folder, domain.FolderSeparator)

	id := domain.MeetingIdentifier{
		OwnerEmail:  owner,
		MeetingName: name,
		MeetingDate: date,
		Basename:    basename,
	}
	if err := id.Validate(); err != nil {
		return domain.MeetingIdentifier{}, "", fmt.Errorf("%w: %q: %v", domain.ErrInvalidKeyFormat, key, err)
	}
	return id, ext, nil
}

// SplitFilename splits a client-supplied filename into basename and
// extension, rejecting anything that could escape the meeting folder.
func SplitFilename(filename string) (string, string, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "", "", fmt.Errorf("%w: empty", domain.ErrInvalidFilename)
	}
	if strings.ContainsAny(name, `/\`) {
		return "", "", fmt.Errorf("%w: %q contains a path separator", domain.ErrInvalidFilename, name)
	}
	if strings.HasPrefix(name, ".") {
		return "", "", fmt.Errorf("%w: %q starts with a dot", domain.ErrInvalidFilename, name)
	}

	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if base == "" || ext == "" || ext == "." {
		return "", "", fmt.Errorf("%w: %q needs a name and an extension", domain.ErrInvalidFilename, name)
	}
	if base == "." || base == ".." {
		return "", "", fmt.Errorf("%w: %q", domain.ErrInvalidFilename, name)
	}
	return base, ext, nil
}

// SanitizeJobName turns id into a lower-case, dash-separated name accepted
// by external job services. The result is at most MaxJobNameLength long.
func SanitizeJobName(id domain.MeetingIdentifier) string {
	return sanitize(id.PK(), MaxJobNameLength)
}

// UniqueJobName appends a random suffix to the sanitized identifier and
// keeps the total within maxLen.
func UniqueJobName(id domain.MeetingIdentifier, maxLen int) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	stemLen := maxLen - len(suffix) - 1
	stem := sanitize(id.PK(), stemLen)
	if stem == "" {
		return suffix
	}
	return stem + "-" + suffix
}

func sanitize(s string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if maxLen >= 0 && len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}
	return out
}
