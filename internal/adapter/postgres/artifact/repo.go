// Package artifact persists meeting artifacts in PostgreSQL.
package artifact

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/meetings-backend/internal/adapter/postgres"
	"github.com/heartmarshall/meetings-backend/internal/domain"
)

const (
	table  = "meeting_artifacts"
	entity = "meeting_artifact"

	// MaxErrorMessageLength bounds the stored failure message in characters.
	MaxErrorMessageLength = 500
)

var columns = []string{
	"pk", "owner_email", "meeting_name", "meeting_date", "basename", "ext", "status",
	"recording_key", "transcript_key", "summary_key", "error_code", "error_message",
	"duration_sec", "language", "created_at", "updated_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides meeting artifact persistence. Every write is a single
// statement keyed by the primary key; concurrent writers on the same key
// resolve as last write wins.
type Repo struct {
	q   postgres.Querier
	now func() time.Time
}

// New creates a new artifact repository.
func New(q postgres.Querier) *Repo {
	return &Repo{q: q, now: func() time.Time { return time.Now().UTC() }}
}

// ---------------------------------------------------------------------------
// Writes
// ---------------------------------------------------------------------------

// UpsertRecording creates the artifact or restarts its lifecycle with a new
// recording. created_at is kept on conflict; later-stage fields are cleared.
func (r *Repo) UpsertRecording(
	ctx context.Context,
	id domain.MeetingIdentifier,
	ext string,
	recordingKey string,
	status domain.ArtifactStatus,
) (*domain.MeetingArtifact, error) {
	now := r.now()

	query, args, err := psql.Insert(table).
		Columns("pk", "owner_email", "meeting_name", "meeting_date", "basename",
			"ext", "status", "recording_key", "created_at", "updated_at").
		Values(id.PK(), id.OwnerEmail, id.MeetingName, id.MeetingDate, id.Basename,
			ext, string(status), recordingKey, now, now).
		Suffix(`ON CONFLICT (pk) DO UPDATE SET
			ext = EXCLUDED.ext,
			status = EXCLUDED.status,
			recording_key = EXCLUDED.recording_key,
			transcript_key = NULL,
			summary_key = NULL,
			error_code = NULL,
			error_message = NULL,
			duration_sec = NULL,
			language = NULL,
			updated_at = EXCLUDED.updated_at`).
		Suffix("RETURNING " + returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert: %w", err)
	}

	return r.getOne(ctx, id, query, args)
}

// UpdateWithTranscription records the normalized transcript location and
// drops any summary of a previous transcript.
// Returns domain.ErrNotFound if the artifact was never ingested.
func (r *Repo) UpdateWithTranscription(
	ctx context.Context,
	id domain.MeetingIdentifier,
	transcriptKey string,
	status domain.ArtifactStatus,
	durationSec *float64,
	language *string,
) (*domain.MeetingArtifact, error) {
	return r.update(ctx, id, sq.Eq{
		"transcript_key": transcriptKey,
		"status":         string(status),
		"duration_sec":   durationSec,
		"language":       language,
		"summary_key":    nil,
		"error_code":     nil,
		"error_message":  nil,
	})
}

// UpdateWithSummary records the summary location.
// Returns domain.ErrNotFound if the artifact does not exist.
func (r *Repo) UpdateWithSummary(
	ctx context.Context,
	id domain.MeetingIdentifier,
	summaryKey string,
	status domain.ArtifactStatus,
) (*domain.MeetingArtifact, error) {
	return r.update(ctx, id, sq.Eq{
		"summary_key":   summaryKey,
		"status":        string(status),
		"error_code":    nil,
		"error_message": nil,
	})
}

// UpdateStatus moves the artifact to status without touching other fields.
func (r *Repo) UpdateStatus(
	ctx context.Context,
	id domain.MeetingIdentifier,
	status domain.ArtifactStatus,
) (*domain.MeetingArtifact, error) {
	return r.update(ctx, id, sq.Eq{"status": string(status)})
}

// MarkFailed records a failure. Status defaults to FAILED; empty Code or
// Message keep the stored values. The message is truncated to
// MaxErrorMessageLength characters.
func (r *Repo) MarkFailed(
	ctx context.Context,
	id domain.MeetingIdentifier,
	f domain.Failure,
) (*domain.MeetingArtifact, error) {
	status := f.Status
	if status == "" {
		status = domain.StatusFailed
	}

	set := sq.Eq{"status": string(status)}
	if f.Code != "" {
		set["error_code"] = f.Code
	}
	if f.Message != "" {
		set["error_message"] = truncate(f.Message, MaxErrorMessageLength)
	}
	return r.update(ctx, id, set)
}

func (r *Repo) update(ctx context.Context, id domain.MeetingIdentifier, set sq.Eq) (*domain.MeetingArtifact, error) {
	set["updated_at"] = r.now()

	query, args, err := psql.Update(table).
		SetMap(set).
		Where(sq.Eq{"pk": id.PK()}).
		Suffix("RETURNING " + returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	return r.getOne(ctx, id, query, args)
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// Get returns the artifact for id.
// Returns domain.ErrNotFound if it does not exist.
func (r *Repo) Get(ctx context.Context, id domain.MeetingIdentifier) (*domain.MeetingArtifact, error) {
	query, args, err := psql.Select(columns...).
		From(table).
		Where(sq.Eq{"pk": id.PK()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get: %w", err)
	}

	return r.getOne(ctx, id, query, args)
}

// List returns one page of artifacts matching filter, newest meeting date
// first, and the total number of matches.
func (r *Repo) List(ctx context.Context, filter domain.ArtifactFilter) ([]*domain.MeetingArtifact, int, error) {
	filter = filter.Normalize()
	where := filterConditions(filter)

	countQuery, countArgs, err := psql.Select("COUNT(*)").From(table).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int
	if err := r.q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count artifacts: %w", err)
	}

	query, args, err := psql.Select(columns...).
		From(table).
		Where(where).
		OrderBy("meeting_date DESC", "basename DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list artifacts: %w", err)
	}

	items := make([]*domain.MeetingArtifact, len(rows))
	for i := range rows {
		items[i] = rows[i].toDomain()
	}
	return items, total, nil
}

func filterConditions(f domain.ArtifactFilter) sq.And {
	where := sq.And{}
	if f.OwnerEmail != nil {
		where = append(where, sq.Eq{"owner_email": *f.OwnerEmail})
	}
	if f.MeetingName != nil {
		where = append(where, sq.Eq{"meeting_name": *f.MeetingName})
	}
	if f.Status != nil {
		where = append(where, sq.Eq{"status": string(*f.Status)})
	}
	if f.FromDate != nil {
		where = append(where, sq.GtOrEq{"meeting_date": *f.FromDate})
	}
	if f.ToDate != nil {
		where = append(where, sq.LtOrEq{"meeting_date": *f.ToDate})
	}
	return where
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (r *Repo) getOne(ctx context.Context, id domain.MeetingIdentifier, query string, args []any) (*domain.MeetingArtifact, error) {
	var out row
	if err := pgxscan.Get(ctx, r.q, &out, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			err = pgx.ErrNoRows
		}
		return nil, postgres.MapError(err, entity, id.PK())
	}
	return out.toDomain(), nil
}

func returning() string {
	return strings.Join(columns, ", ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

type row struct {
	PK            string    `db:"pk"`
	OwnerEmail    string    `db:"owner_email"`
	MeetingName   string    `db:"meeting_name"`
	MeetingDate   string    `db:"meeting_date"`
	Basename      string    `db:"basename"`
	Ext           string    `db:"ext"`
	Status        string    `db:"status"`
	RecordingKey  *string   `db:"recording_key"`
	TranscriptKey *string   `db:"transcript_key"`
	SummaryKey    *string   `db:"summary_key"`
	ErrorCode     *string   `db:"error_code"`
	ErrorMessage  *string   `db:"error_message"`
	DurationSec   *float64  `db:"duration_sec"`
	Language      *string   `db:"language"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r row) toDomain() *domain.MeetingArtifact {
	return &domain.MeetingArtifact{
		MeetingIdentifier: domain.MeetingIdentifier{
			OwnerEmail:  r.OwnerEmail,
			MeetingName: r.MeetingName,
			MeetingDate: r.MeetingDate,
			Basename:    r.Basename,
		},
		Ext:           r.Ext,
		Status:        domain.ArtifactStatus(r.Status),
		RecordingKey:  r.RecordingKey,
		TranscriptKey: r.TranscriptKey,
		SummaryKey:    r.SummaryKey,
		ErrorCode:     r.ErrorCode,
		ErrorMessage:  r.ErrorMessage,
		DurationSec:   r.DurationSec,
		Language:      r.Language,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
