package service

import (
	"errors"
	"testing"

	"github.com/hansajayathilaka/go-inventory-sub000/internal/core/domain"
)

func TestRegistry_SeedsOneActiveSession(t *testing.T) {
	reg := NewSessionRegistry()

	sessions := reg.Sessions()
	if len(sessions) != 1 {
		t.Fatalf("expected 1 seeded session, got %d", len(sessions))
	}
	if reg.ActiveID() != sessions[0].ID {
		t.Errorf("seeded session is not active")
	}
	if sessions[0].State != domain.StateItemEntry {
		t.Errorf("expected ItemEntry, got %s", sessions[0].State)
	}
}

func TestRegistry_CreateAndSwitch(t *testing.T) {
	reg := NewSessionRegistry()
	created := reg.CreateSession("Counter 2")

	if created.Active {
		t.Errorf("new session should not steal active")
	}
	if err := reg.SwitchActive(created.ID); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if reg.ActiveID() != created.ID {
		t.Errorf("expected active %s, got %s", created.ID, reg.ActiveID())
	}

	if err := reg.SwitchActive("no-such-id"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRegistry_CannotCloseLastSession(t *testing.T) {
	reg := NewSessionRegistry()
	only := reg.Sessions()[0]

	err := reg.CloseSession(only.ID)
	if !errors.Is(err, domain.ErrCannotCloseLastSession) {
		t.Fatalf("expected ErrCannotCloseLastSession, got %v", err)
	}
	if len(reg.Sessions()) != 1 {
		t.Errorf("registry reached %d sessions", len(reg.Sessions()))
	}
}

func TestRegistry_CloseActivePromotesOldestSurvivor(t *testing.T) {
	reg := NewSessionRegistry()
	seeded := reg.Sessions()[0]
	second := reg.CreateSession("")
	third := reg.CreateSession("")

	if err := reg.SwitchActive(third.ID); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if err := reg.CloseSession(third.ID); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// seeded session has the lowest creation order among survivors
	if reg.ActiveID() != seeded.ID {
		t.Errorf("expected oldest survivor %s active, got %s", seeded.ID, reg.ActiveID())
	}

	if err := reg.CloseSession(seeded.ID); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if reg.ActiveID() != second.ID {
		t.Errorf("expected %s active, got %s", second.ID, reg.ActiveID())
	}

	if err := reg.CloseSession(third.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for already-closed id, got %v", err)
	}
}

func TestRegistry_CloseInactiveKeepsActive(t *testing.T) {
	reg := NewSessionRegistry()
	seeded := reg.Sessions()[0]
	extra := reg.CreateSession("")

	if err := reg.CloseSession(extra.ID); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if reg.ActiveID() != seeded.ID {
		t.Errorf("active changed when closing an inactive session")
	}
}

func TestRegistry_GeneratedDisplayNames(t *testing.T) {
	reg := NewSessionRegistry()
	named := reg.CreateSession("Trade Counter")
	unnamed := reg.CreateSession("")

	if named.DisplayName != "Trade Counter" {
		t.Errorf("expected given name, got %q", named.DisplayName)
	}
	if unnamed.DisplayName == "" {
		t.Errorf("expected generated display name")
	}
}
