package testhelper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

// NewIdentifier returns a MeetingIdentifier unique to this call so parallel
// tests sharing one database never collide.
func NewIdentifier(t *testing.T) domain.MeetingIdentifier {
	t.Helper()

	suffix := uuid.New().String()[:8]
	return domain.MeetingIdentifier{
		OwnerEmail:  fmt.Sprintf("owner-%s@example.com", suffix),
		MeetingName: "Sync " + suffix,
		MeetingDate: time.Now().UTC().Format("2006-01-02"),
		Basename:    "rec-" + suffix,
	}
}

// SeedArtifact inserts an artifact row in the given status with a recording key
// and returns its identifier.
func SeedArtifact(t *testing.T, pool *pgxpool.Pool, status domain.ArtifactStatus) domain.MeetingIdentifier {
	t.Helper()

	id := NewIdentifier(t)
	key := fmt.Sprintf("recordings/%s/%s/%s.mp3", id.OwnerEmail, id.Folder(), id.Basename)

	_, err := pool.Exec(context.Background(),
		`INSERT INTO meeting_artifacts
			(pk, owner_email, meeting_name, meeting_date, basename, ext, status, recording_key, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, '.mp3', $6, $7, now(), now())`,
		id.PK(), id.OwnerEmail, id.MeetingName, id.MeetingDate, id.Basename, string(status), key,
	)
	if err != nil {
		t.Fatalf("testhelper: seed artifact: %v", err)
	}
	return id
}
