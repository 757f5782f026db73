package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/veldran/kingdom-manager/internal/domain/alliance"
	"github.com/veldran/kingdom-manager/internal/domain/event"
	"github.com/veldran/kingdom-manager/internal/domain/player"
)

type EventService struct {
	eventRepo    event.Repository
	playerRepo   player.Repository
	allianceRepo alliance.Repository
}

func NewEventService(eventRepo event.Repository, playerRepo player.Repository, allianceRepo alliance.Repository) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		playerRepo:   playerRepo,
		allianceRepo: allianceRepo,
	}
}

func (s *EventService) ListEvents(ctx context.Context, userID int64) ([]event.WithMvpName, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ListEvents")
	defer span.End()

	events, err := s.eventRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

func (s *EventService) GetEvent(ctx context.Context, userID, eventID int64) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.GetEvent")
	defer span.End()

	item, exists, err := s.eventRepo.GetByID(ctx, userID, eventID)
	if err != nil {
		return event.Event{}, fmt.Errorf("get event: %w", err)
	}
	if !exists {
		return event.Event{}, fmt.Errorf("%w: event=%d", ErrNotFound, eventID)
	}

	return item, nil
}

func (s *EventService) CreateEvent(ctx context.Context, userID int64, name string, mvpPlayerID *int64) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.CreateEvent")
	defer span.End()

	name = strings.TrimSpace(name)
	item := event.Event{Name: name, MvpPlayerID: mvpPlayerID}
	if err := item.Validate(); err != nil {
		return event.Event{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if mvpPlayerID != nil {
		if err := s.requirePlayer(ctx, userID, *mvpPlayerID); err != nil {
			return event.Event{}, err
		}
	}

	created, err := s.eventRepo.Create(ctx, userID, item)
	if err != nil {
		return event.Event{}, fmt.Errorf("create event: %w", err)
	}

	return created, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, userID, eventID int64, name string, mvpPlayerID *int64) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.UpdateEvent")
	defer span.End()

	name = strings.TrimSpace(name)
	item := event.Event{ID: eventID, Name: name, MvpPlayerID: mvpPlayerID}
	if err := item.Validate(); err != nil {
		return event.Event{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if mvpPlayerID != nil {
		if err := s.requirePlayer(ctx, userID, *mvpPlayerID); err != nil {
			return event.Event{}, err
		}
	}

	exists, err := s.eventRepo.Update(ctx, userID, item)
	if err != nil {
		return event.Event{}, fmt.Errorf("update event: %w", err)
	}
	if !exists {
		return event.Event{}, fmt.Errorf("%w: event=%d", ErrNotFound, eventID)
	}

	updated, _, err := s.eventRepo.GetByID(ctx, userID, eventID)
	if err != nil {
		return event.Event{}, fmt.Errorf("reload event: %w", err)
	}

	return updated, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, userID, eventID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.DeleteEvent")
	defer span.End()

	exists, err := s.eventRepo.Delete(ctx, userID, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: event=%d", ErrNotFound, eventID)
	}

	return nil
}

// LinkAlliance attaches an alliance to an event. Linking the same pair
// twice is a conflict, not a second row.
func (s *EventService) LinkAlliance(ctx context.Context, userID, eventID, allianceID int64) (event.AllianceLink, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.LinkAlliance")
	defer span.End()

	if _, exists, err := s.eventRepo.GetByID(ctx, userID, eventID); err != nil {
		return event.AllianceLink{}, fmt.Errorf("get event: %w", err)
	} else if !exists {
		return event.AllianceLink{}, fmt.Errorf("%w: event=%d", ErrNotFound, eventID)
	}
	if _, exists, err := s.allianceRepo.GetByID(ctx, userID, allianceID); err != nil {
		return event.AllianceLink{}, fmt.Errorf("get alliance: %w", err)
	} else if !exists {
		return event.AllianceLink{}, fmt.Errorf("%w: alliance=%d", ErrNotFound, allianceID)
	}

	link, alreadyLinked, err := s.eventRepo.LinkAlliance(ctx, userID, eventID, allianceID)
	if err != nil {
		return event.AllianceLink{}, fmt.Errorf("link alliance: %w", err)
	}
	if alreadyLinked {
		return event.AllianceLink{}, fmt.Errorf("%w: alliance %d already linked to event %d", ErrConflict, allianceID, eventID)
	}

	return link, nil
}

func (s *EventService) UnlinkAlliance(ctx context.Context, userID, eventID, allianceID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.UnlinkAlliance")
	defer span.End()

	exists, err := s.eventRepo.UnlinkAlliance(ctx, userID, eventID, allianceID)
	if err != nil {
		return fmt.Errorf("unlink alliance: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: alliance %d is not linked to event %d", ErrNotFound, allianceID, eventID)
	}

	return nil
}

func (s *EventService) ListEventAlliances(ctx context.Context, userID, eventID int64) ([]alliance.Alliance, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ListEventAlliances")
	defer span.End()

	if _, exists, err := s.eventRepo.GetByID(ctx, userID, eventID); err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: event=%d", ErrNotFound, eventID)
	}

	alliances, err := s.eventRepo.ListAlliances(ctx, userID, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event alliances: %w", err)
	}

	return alliances, nil
}

func (s *EventService) requirePlayer(ctx context.Context, userID, playerID int64) error {
	_, exists, err := s.playerRepo.GetByID(ctx, userID, playerID)
	if err != nil {
		return fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}
	return nil
}
