package usecase

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/veldran/kingdom-manager/internal/domain/alliance"
	"github.com/veldran/kingdom-manager/internal/domain/event"
	"github.com/veldran/kingdom-manager/internal/domain/player"
)

// Dashboard aggregates one tenant's counters and recent activity.
type Dashboard struct {
	TotalPlayers    int64
	TotalEvents     int64
	TotalAlliances  int64
	RecentMvps      []player.WithStatus
	RecentEvents    []event.WithMvpName
	RecentAlliances []alliance.WithEvent
}

// DashboardReader serves the aggregate queries behind the dashboard.
type DashboardReader interface {
	CountRows(ctx context.Context, userID int64, table string) (int64, error)
	RecentMvpPlayers(ctx context.Context, userID int64) ([]player.WithStatus, error)
	RecentEvents(ctx context.Context, userID int64) ([]event.WithMvpName, error)
	RecentAlliances(ctx context.Context, userID int64) ([]alliance.WithEvent, error)
}

type DashboardService struct {
	reader DashboardReader
}

func NewDashboardService(reader DashboardReader) *DashboardService {
	return &DashboardService{reader: reader}
}

// Get fans the six dashboard queries out concurrently and fails on the
// first error.
func (s *DashboardService) Get(ctx context.Context, userID int64) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get")
	defer span.End()

	var dashboard Dashboard

	group := pool.New().WithContext(ctx).WithCancelOnError()
	group.Go(func(ctx context.Context) error {
		count, err := s.reader.CountRows(ctx, userID, "players")
		if err != nil {
			return fmt.Errorf("count players: %w", err)
		}
		dashboard.TotalPlayers = count
		return nil
	})
	group.Go(func(ctx context.Context) error {
		count, err := s.reader.CountRows(ctx, userID, "events")
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}
		dashboard.TotalEvents = count
		return nil
	})
	group.Go(func(ctx context.Context) error {
		count, err := s.reader.CountRows(ctx, userID, "alliances")
		if err != nil {
			return fmt.Errorf("count alliances: %w", err)
		}
		dashboard.TotalAlliances = count
		return nil
	})
	group.Go(func(ctx context.Context) error {
		recent, err := s.reader.RecentMvpPlayers(ctx, userID)
		if err != nil {
			return fmt.Errorf("recent mvp players: %w", err)
		}
		dashboard.RecentMvps = recent
		return nil
	})
	group.Go(func(ctx context.Context) error {
		recent, err := s.reader.RecentEvents(ctx, userID)
		if err != nil {
			return fmt.Errorf("recent events: %w", err)
		}
		dashboard.RecentEvents = recent
		return nil
	})
	group.Go(func(ctx context.Context) error {
		recent, err := s.reader.RecentAlliances(ctx, userID)
		if err != nil {
			return fmt.Errorf("recent alliances: %w", err)
		}
		dashboard.RecentAlliances = recent
		return nil
	})

	if err := group.Wait(); err != nil {
		return Dashboard{}, err
	}

	return dashboard, nil
}
