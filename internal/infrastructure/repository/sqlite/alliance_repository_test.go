package sqlite

import (
	"context"
	"testing"

	"github.com/veldran/kingdom-manager/internal/domain/alliance"
)

func TestAllianceRepository_BlacklistToggle(t *testing.T) {
	ctx := context.Background()
	repo := NewAllianceRepository(newTestRegistry(t))

	horde, err := repo.Create(ctx, testUserID, alliance.Alliance{Name: "Iron Horde"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if horde.IsBlacklisted {
		t.Fatalf("new alliance must not start blacklisted")
	}

	found, err := repo.SetBlacklisted(ctx, testUserID, horde.ID, true)
	if err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	if !found {
		t.Fatalf("expected alliance to exist")
	}

	got, ok, err := repo.GetByID(ctx, testUserID, horde.ID)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if !got.IsBlacklisted {
		t.Fatalf("expected alliance to be blacklisted")
	}

	if _, err := repo.SetBlacklisted(ctx, testUserID, horde.ID, false); err != nil {
		t.Fatalf("unblacklist: %v", err)
	}
	got, _, _ = repo.GetByID(ctx, testUserID, horde.ID)
	if got.IsBlacklisted {
		t.Fatalf("expected blacklist cleared")
	}
}

func TestAllianceRepository_BlacklistMissingAlliance(t *testing.T) {
	ctx := context.Background()
	repo := NewAllianceRepository(newTestRegistry(t))

	found, err := repo.SetBlacklisted(ctx, testUserID, 42, true)
	if err != nil {
		t.Fatalf("blacklist: %v", err)
	}
	if found {
		t.Fatalf("expected miss for absent alliance")
	}
}

func TestAllianceRepository_ListCarriesLatestEventLink(t *testing.T) {
	ctx := context.Background()
	registry := newTestRegistry(t)
	alliances := NewAllianceRepository(registry)
	events := NewEventRepository(registry)

	horde, _ := alliances.Create(ctx, testUserID, alliance.Alliance{Name: "Iron Horde", Description: "old rivals"})
	if _, err := alliances.Create(ctx, testUserID, alliance.Alliance{Name: "Silver Pact"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	siege, _ := events.Create(ctx, testUserID, eventNamed("Siege of Dawn"))
	if _, _, err := events.LinkAlliance(ctx, testUserID, siege.ID, horde.ID); err != nil {
		t.Fatalf("link: %v", err)
	}

	list, err := alliances.List(ctx, testUserID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 alliances, got %d", len(list))
	}

	for _, a := range list {
		switch a.Name {
		case "Iron Horde":
			if a.EventName == nil || *a.EventName != "Siege of Dawn" {
				t.Fatalf("expected linked event name, got %v", a.EventName)
			}
			if a.Description != "old rivals" {
				t.Fatalf("description lost: %+v", a)
			}
		case "Silver Pact":
			if a.EventName != nil {
				t.Fatalf("unlinked alliance should carry no event, got %v", *a.EventName)
			}
		}
	}
}

func TestAllianceRepository_DeleteRemovesJunctionRows(t *testing.T) {
	ctx := context.Background()
	registry := newTestRegistry(t)
	alliances := NewAllianceRepository(registry)
	events := NewEventRepository(registry)

	horde, _ := alliances.Create(ctx, testUserID, alliance.Alliance{Name: "Iron Horde"})
	siege, _ := events.Create(ctx, testUserID, eventNamed("Siege of Dawn"))
	if _, _, err := events.LinkAlliance(ctx, testUserID, siege.ID, horde.ID); err != nil {
		t.Fatalf("link: %v", err)
	}

	found, err := alliances.Delete(ctx, testUserID, horde.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !found {
		t.Fatalf("expected alliance to exist")
	}

	linked, err := events.ListAlliances(ctx, testUserID, siege.ID)
	if err != nil {
		t.Fatalf("list alliances of event: %v", err)
	}
	if len(linked) != 0 {
		t.Fatalf("junction rows survived alliance delete: %d", len(linked))
	}
}
