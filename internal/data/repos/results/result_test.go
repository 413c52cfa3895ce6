package results

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mindbridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mindbridge-backend/internal/domain"
)

func TestActivityResultRepo_SaveAndList(t *testing.T) {
	repo := NewActivityResultRepo(testutil.DB(t), testutil.Logger(t))
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 3; i++ {
		err := repo.SaveResult(ctx, types.ActivityResult{
			UserID:          userID,
			ActivityType:    fmt.Sprintf("activity_%d", i),
			EngagementScore: float64(i),
			RecordedAt:      base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	rows, err := repo.ListResultsByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	// oldest first
	if rows[0].ActivityType != "activity_0" || rows[2].ActivityType != "activity_2" {
		t.Fatalf("unexpected order: %s .. %s", rows[0].ActivityType, rows[2].ActivityType)
	}
}

func TestActivityResultRepo_LimitKeepsNewest(t *testing.T) {
	repo := NewActivityResultRepo(testutil.DB(t), testutil.Logger(t))
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 5; i++ {
		err := repo.SaveResult(ctx, types.ActivityResult{
			UserID:       userID,
			ActivityType: fmt.Sprintf("activity_%d", i),
			RecordedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	rows, err := repo.ListResultsByUser(ctx, userID, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ActivityType != "activity_3" || rows[1].ActivityType != "activity_4" {
		t.Fatalf("expected the two newest oldest-first, got %s, %s",
			rows[0].ActivityType, rows[1].ActivityType)
	}
}

func TestActivityResultRepo_EmptyUser(t *testing.T) {
	repo := NewActivityResultRepo(testutil.DB(t), testutil.Logger(t))

	rows, err := repo.ListResultsByUser(context.Background(), uuid.New(), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}
