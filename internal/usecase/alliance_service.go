package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/veldran/kingdom-manager/internal/domain/alliance"
	"github.com/veldran/kingdom-manager/internal/domain/event"
)

type AllianceService struct {
	allianceRepo alliance.Repository
	eventRepo    event.Repository
}

func NewAllianceService(allianceRepo alliance.Repository, eventRepo event.Repository) *AllianceService {
	return &AllianceService{
		allianceRepo: allianceRepo,
		eventRepo:    eventRepo,
	}
}

func (s *AllianceService) ListAlliances(ctx context.Context, userID int64) ([]alliance.WithEvent, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AllianceService.ListAlliances")
	defer span.End()

	alliances, err := s.allianceRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list alliances: %w", err)
	}

	return alliances, nil
}

func (s *AllianceService) GetAlliance(ctx context.Context, userID, allianceID int64) (alliance.Alliance, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AllianceService.GetAlliance")
	defer span.End()

	item, exists, err := s.allianceRepo.GetByID(ctx, userID, allianceID)
	if err != nil {
		return alliance.Alliance{}, fmt.Errorf("get alliance: %w", err)
	}
	if !exists {
		return alliance.Alliance{}, fmt.Errorf("%w: alliance=%d", ErrNotFound, allianceID)
	}

	return item, nil
}

func (s *AllianceService) CreateAlliance(ctx context.Context, userID int64, name, description string) (alliance.Alliance, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AllianceService.CreateAlliance")
	defer span.End()

	item := alliance.Alliance{Name: strings.TrimSpace(name), Description: description}
	if err := item.Validate(); err != nil {
		return alliance.Alliance{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.allianceRepo.Create(ctx, userID, item)
	if err != nil {
		return alliance.Alliance{}, fmt.Errorf("create alliance: %w", err)
	}

	return created, nil
}

func (s *AllianceService) UpdateAlliance(ctx context.Context, userID, allianceID int64, name, description string) (alliance.Alliance, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AllianceService.UpdateAlliance")
	defer span.End()

	item := alliance.Alliance{ID: allianceID, Name: strings.TrimSpace(name), Description: description}
	if err := item.Validate(); err != nil {
		return alliance.Alliance{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	exists, err := s.allianceRepo.Update(ctx, userID, item)
	if err != nil {
		return alliance.Alliance{}, fmt.Errorf("update alliance: %w", err)
	}
	if !exists {
		return alliance.Alliance{}, fmt.Errorf("%w: alliance=%d", ErrNotFound, allianceID)
	}

	updated, _, err := s.allianceRepo.GetByID(ctx, userID, allianceID)
	if err != nil {
		return alliance.Alliance{}, fmt.Errorf("reload alliance: %w", err)
	}

	return updated, nil
}

func (s *AllianceService) DeleteAlliance(ctx context.Context, userID, allianceID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AllianceService.DeleteAlliance")
	defer span.End()

	exists, err := s.allianceRepo.Delete(ctx, userID, allianceID)
	if err != nil {
		return fmt.Errorf("delete alliance: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: alliance=%d", ErrNotFound, allianceID)
	}

	return nil
}

func (s *AllianceService) SetBlacklisted(ctx context.Context, userID, allianceID int64, blacklisted bool) (alliance.Alliance, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AllianceService.SetBlacklisted")
	defer span.End()

	exists, err := s.allianceRepo.SetBlacklisted(ctx, userID, allianceID, blacklisted)
	if err != nil {
		return alliance.Alliance{}, fmt.Errorf("set alliance blacklist: %w", err)
	}
	if !exists {
		return alliance.Alliance{}, fmt.Errorf("%w: alliance=%d", ErrNotFound, allianceID)
	}

	updated, _, err := s.allianceRepo.GetByID(ctx, userID, allianceID)
	if err != nil {
		return alliance.Alliance{}, fmt.Errorf("reload alliance: %w", err)
	}

	return updated, nil
}

func (s *AllianceService) ListAllianceEvents(ctx context.Context, userID, allianceID int64) ([]event.WithMvpName, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AllianceService.ListAllianceEvents")
	defer span.End()

	if _, exists, err := s.allianceRepo.GetByID(ctx, userID, allianceID); err != nil {
		return nil, fmt.Errorf("get alliance: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: alliance=%d", ErrNotFound, allianceID)
	}

	events, err := s.eventRepo.ListByAlliance(ctx, userID, allianceID)
	if err != nil {
		return nil, fmt.Errorf("list alliance events: %w", err)
	}

	return events, nil
}
