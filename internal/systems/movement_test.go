package systems

import (
	"testing"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
)

func TestValidateStep(t *testing.T) {
	g := floorGrid(2)
	g.SetTile(domain.NewHex(1, 0), domain.TileWall)
	e := place(g, &domain.Entity{ID: "hero"}, domain.NewHex(0, 0))
	place(g, &domain.Entity{ID: "rock"}, domain.NewHex(0, 1))

	tests := []struct {
		to   domain.Hex
		code domain.ErrorCode
	}{
		{domain.NewHex(2, 0), domain.CodeMoveInvalidDistance},
		{domain.NewHex(1, 0), domain.CodeTileNotPassable},
		{domain.NewHex(0, 1), domain.CodeTileOccupied},
	}
	for _, tt := range tests {
		aerr := ValidateStep(e, tt.to, g)
		if aerr == nil || aerr.Code != tt.code {
			t.Errorf("ValidateStep(%v) = %v, want %s", tt.to, aerr, tt.code)
		}
	}
	if aerr := ValidateStep(e, domain.NewHex(-1, 0), g); aerr != nil {
		t.Errorf("Expected valid step, got %v", aerr)
	}
}
