package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/veldran/kingdom-manager/internal/infrastructure/patchnotes"
)

// PatchNotesStore persists the single release-notes document.
type PatchNotesStore interface {
	Load(ctx context.Context) (patchnotes.Document, error)
	Save(ctx context.Context, content, updatedBy string) (patchnotes.Document, error)
}

type PatchNotesService struct {
	store PatchNotesStore
}

func NewPatchNotesService(store PatchNotesStore) *PatchNotesService {
	return &PatchNotesService{store: store}
}

func (s *PatchNotesService) Get(ctx context.Context) (patchnotes.Document, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PatchNotesService.Get")
	defer span.End()

	doc, err := s.store.Load(ctx)
	if err != nil {
		return patchnotes.Document{}, fmt.Errorf("load patch notes: %w", err)
	}

	return doc, nil
}

func (s *PatchNotesService) Publish(ctx context.Context, content, updatedBy string) (patchnotes.Document, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PatchNotesService.Publish")
	defer span.End()

	if strings.TrimSpace(content) == "" {
		return patchnotes.Document{}, fmt.Errorf("%w: patch notes content is required", ErrInvalidInput)
	}

	doc, err := s.store.Save(ctx, content, updatedBy)
	if err != nil {
		return patchnotes.Document{}, fmt.Errorf("save patch notes: %w", err)
	}

	return doc, nil
}
