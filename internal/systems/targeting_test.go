package systems

import (
	"testing"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
)

func TestNearestHostile(t *testing.T) {
	actor := &domain.Entity{ID: "m", Pos: domain.NewHex(0, 0)}
	a := &domain.Entity{ID: "b", Pos: domain.NewHex(2, 0), TeamID: "t"}
	b := &domain.Entity{ID: "a", Pos: domain.NewHex(0, 2), TeamID: "t"}
	c := &domain.Entity{ID: "c", Pos: domain.NewHex(5, 0), TeamID: "t"}

	got := NearestHostile(actor, []*domain.Entity{c, a, b})
	if got == nil || got.ID != "a" {
		t.Errorf("Expected tie broken by id, got %v", got)
	}
}
