package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/veldran/kingdom-manager/internal/domain/event"
	"github.com/veldran/kingdom-manager/internal/domain/player"
)

type PlayerService struct {
	playerRepo player.Repository
	eventRepo  event.Repository
	now        func() time.Time
}

func NewPlayerService(playerRepo player.Repository, eventRepo event.Repository) *PlayerService {
	return &PlayerService{
		playerRepo: playerRepo,
		eventRepo:  eventRepo,
		now:        time.Now,
	}
}

func (s *PlayerService) ListPlayers(ctx context.Context, userID int64) ([]player.WithStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	players, err := s.playerRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return players, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, userID, playerID int64) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	item, exists, err := s.playerRepo.GetByID(ctx, userID, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	return item, nil
}

func (s *PlayerService) CreatePlayer(ctx context.Context, userID int64, name string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.CreatePlayer")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return player.Player{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}

	created, err := s.playerRepo.Create(ctx, userID, name)
	if err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	return created, nil
}

type UpdatePlayerInput struct {
	Name         string
	Description  string
	Role         player.Role
	IsOnHolidays bool
}

// UpdatePlayer edits the profile fields only. The MVP counter and last
// crowning date never move through this path.
func (s *PlayerService) UpdatePlayer(ctx context.Context, userID, playerID int64, input UpdatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.UpdatePlayer")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	if input.Role == "" {
		input.Role = player.RoleNormal
	}

	updated := player.Player{
		ID:           playerID,
		Name:         input.Name,
		Description:  input.Description,
		Role:         input.Role,
		IsOnHolidays: input.IsOnHolidays,
	}
	if err := updated.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	exists, err := s.playerRepo.Update(ctx, userID, updated)
	if err != nil {
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	item, _, err := s.playerRepo.GetByID(ctx, userID, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("reload player: %w", err)
	}

	return item, nil
}

// DeletePlayer removes the player row. Events that name the player as MVP
// keep their link untouched and simply stop resolving a name.
func (s *PlayerService) DeletePlayer(ctx context.Context, userID, playerID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.DeletePlayer")
	defer span.End()

	exists, err := s.playerRepo.Delete(ctx, userID, playerID)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	return nil
}

// AssignMvp crowns the player: the counter is bumped first, then the
// optional event link is overwritten. The two writes commit separately,
// so a failure after the bump leaves the counter advanced. The counter
// is the tally of crownings, not of surviving event links.
func (s *PlayerService) AssignMvp(ctx context.Context, userID, playerID int64, eventID *int64) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.AssignMvp")
	defer span.End()

	exists, err := s.playerRepo.IncrementMvp(ctx, userID, playerID, s.now().UTC())
	if err != nil {
		return player.Player{}, fmt.Errorf("increment mvp count: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	if eventID != nil {
		linked, err := s.eventRepo.SetMvpPlayer(ctx, userID, *eventID, playerID)
		if err != nil {
			return player.Player{}, fmt.Errorf("link mvp event: %w", err)
		}
		if !linked {
			return player.Player{}, fmt.Errorf("%w: event=%d", ErrNotFound, *eventID)
		}
	}

	item, _, err := s.playerRepo.GetByID(ctx, userID, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("reload player: %w", err)
	}

	return item, nil
}

// MvpHistory lists the events that currently link the player as MVP,
// newest first. Reassigned events drop out of the player's history.
func (s *PlayerService) MvpHistory(ctx context.Context, userID, playerID int64) ([]player.MvpHistoryEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.MvpHistory")
	defer span.End()

	_, exists, err := s.playerRepo.GetByID(ctx, userID, playerID)
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	events, err := s.eventRepo.ListByMvpPlayer(ctx, userID, playerID)
	if err != nil {
		return nil, fmt.Errorf("list mvp events: %w", err)
	}

	history := make([]player.MvpHistoryEntry, 0, len(events))
	for _, item := range events {
		history = append(history, player.MvpHistoryEntry{
			EventName:    item.Name,
			AssignedDate: item.CreatedAt,
		})
	}

	return history, nil
}

// RotationStatus orders players by how due they are for the next
// crowning and reports whether a full cycle has completed.
func (s *PlayerService) RotationStatus(ctx context.Context, userID int64) (player.RotationStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.RotationStatus")
	defer span.End()

	players, err := s.playerRepo.ListRotation(ctx, userID)
	if err != nil {
		return player.RotationStatus{}, fmt.Errorf("list rotation: %w", err)
	}

	status := player.RotationStatus{
		Players:      players,
		TotalPlayers: len(players),
	}
	for _, item := range players {
		if item.MvpCount > 0 {
			status.PlayersWithMvp++
		}
	}
	status.NeedsReset = status.TotalPlayers > 0 && status.PlayersWithMvp == status.TotalPlayers
	if len(players) > 0 {
		next := players[0]
		status.NextMvp = &next
	}

	return status, nil
}

// ResetRotation zeroes every counter and crowning date so a new cycle
// can start.
func (s *PlayerService) ResetRotation(ctx context.Context, userID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ResetRotation")
	defer span.End()

	if err := s.playerRepo.ResetRotation(ctx, userID); err != nil {
		return fmt.Errorf("reset rotation: %w", err)
	}

	return nil
}
