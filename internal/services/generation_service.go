package services

import (
	"context"
	"strings"

	"github.com/studylens/studylens/internal/core"
	"github.com/studylens/studylens/internal/core/pipeline"
	"github.com/studylens/studylens/internal/models"
)

// GenerationService is the owner-scoped read/update/delete surface over
// persisted generations. Every operation is filtered by the caller's
// identity matching the record's owner.
type GenerationService struct {
	db core.DbClient
}

func NewGenerationService(db core.DbClient) *GenerationService {
	return &GenerationService{db: db}
}

func (s *GenerationService) Get(ctx context.Context, id, ownerID string) (*models.Generation, error) {
	gen, err := s.db.GetGenerationByID(ctx, id)
	if err != nil {
		return nil, pipeline.Errf(pipeline.KindPersistence, err, "failed to fetch generation")
	}
	if gen == nil {
		return nil, pipeline.Errf(pipeline.KindNotFound, nil, "generation not found")
	}
	if gen.UserID != ownerID {
		return nil, pipeline.Errf(pipeline.KindForbidden, nil, "you do not own this generation")
	}
	return gen, nil
}

func (s *GenerationService) ListByOwner(ctx context.Context, ownerID string) ([]models.Generation, error) {
	out, err := s.db.ListGenerationsByUser(ctx, ownerID)
	if err != nil {
		return nil, pipeline.Errf(pipeline.KindPersistence, err, "failed to fetch generations")
	}
	return out, nil
}

// Rename updates only the record's user-given label. The generation type and
// both content fields are immutable after creation.
func (s *GenerationService) Rename(ctx context.Context, id, ownerID, name string) (*models.Generation, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pipeline.Errf(pipeline.KindInvalidInput, nil, "invalid name provided")
	}

	matched, err := s.db.UpdateGenerationName(ctx, id, ownerID, name)
	if err != nil {
		return nil, pipeline.Errf(pipeline.KindPersistence, err, "failed to update generation name")
	}
	if !matched {
		return nil, s.classifyMiss(ctx, id)
	}
	return s.Get(ctx, id, ownerID)
}

func (s *GenerationService) Delete(ctx context.Context, id, ownerID string) error {
	matched, err := s.db.DeleteGeneration(ctx, id, ownerID)
	if err != nil {
		return pipeline.Errf(pipeline.KindPersistence, err, "failed to delete generation")
	}
	if !matched {
		return s.classifyMiss(ctx, id)
	}
	return nil
}

// classifyMiss distinguishes a record owned by someone else from one that
// does not exist at all, after an owner-filtered operation matched nothing.
func (s *GenerationService) classifyMiss(ctx context.Context, id string) error {
	gen, err := s.db.GetGenerationByID(ctx, id)
	if err != nil {
		return pipeline.Errf(pipeline.KindPersistence, err, "failed to fetch generation")
	}
	if gen != nil {
		return pipeline.Errf(pipeline.KindForbidden, nil, "you do not own this generation")
	}
	return pipeline.Errf(pipeline.KindNotFound, nil, "generation not found")
}
