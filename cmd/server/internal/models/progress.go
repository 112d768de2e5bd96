package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Bab4nI/Jaba/internal/execution"
	"github.com/Bab4nI/Jaba/internal/types"
)

// ContentProgress tracks one user's standing on one content block. Score only
// ever goes up and completion never reverts; attempts count every judged run.
type ContentProgress struct {
	Model
	AuthID    uuid.UUID `json:"auth_id"    gorm:"uniqueIndex:idx_progress_auth_content"`
	ContentID uuid.UUID `json:"content_id" gorm:"uniqueIndex:idx_progress_auth_content"`
	Score     int       `json:"score"`
	Completed bool      `json:"completed"`
	Attempts  int       `json:"attempts"`
}

func (ContentProgress) TableName() string {
	return "content_progress"
}

func (p ContentProgress) GetID() uuid.UUID {
	return p.ID
}

// Ensure ProgressRecorder implements the gateway's recorder interface.
var _ execution.ProgressRecorder = (*ProgressRecorder)(nil)

type ProgressRecorder struct {
	db *gorm.DB
}

func NewProgressRecorder(db *gorm.DB) *ProgressRecorder {
	return &ProgressRecorder{db: db}
}

// Record applies a judged run to the user's progress row for the content.
// An accepted run grants the content's full score; anything else grants
// nothing but still counts as an attempt.
func (r *ProgressRecorder) Record(
	ctx context.Context,
	userID uuid.UUID,
	contentID uuid.UUID,
	accepted bool,
) (*types.ProgressSummary, error) {
	ctx, span := tracer.Start(ctx, "ProgressRecorder.Record")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("content.id", contentID.String()),
		attribute.Bool("accepted", accepted),
	)

	db := r.db.WithContext(ctx)

	span.AddEvent("fetching content")
	content, err := ByID[Content](ctx, db, contentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch content")
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	score := 0
	if accepted {
		score = content.MaxScore
	}

	row := ContentProgress{
		AuthID:    userID,
		ContentID: contentID,
		Score:     score,
		Completed: accepted,
		Attempts:  1,
	}

	span.AddEvent("upserting progress")
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "auth_id"}, {Name: "content_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"score":     gorm.Expr("GREATEST(content_progress.score, excluded.score)"),
			"completed": gorm.Expr("content_progress.completed OR excluded.completed"),
			"attempts":  gorm.Expr("content_progress.attempts + 1"),
		}),
	}).Create(&row).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upsert progress")
		return nil, fmt.Errorf("failed to upsert progress: %w", err)
	}

	// re-read for the merged values, the insert struct only has this attempt's
	var merged ContentProgress
	err = db.Where("auth_id = ? AND content_id = ?", userID, contentID).
		First(&merged).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read back progress")
		return nil, fmt.Errorf("failed to read back progress: %w", err)
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "recorded progress")
	return &types.ProgressSummary{
		Score:     merged.Score,
		MaxScore:  content.MaxScore,
		Completed: merged.Completed,
	}, nil
}
