package systems

import (
	"os"
	"testing"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize the global logger before running any tests
	logger.Init()

	// Exit with the result of the tests
	os.Exit(m.Run())
}

// floorGrid строит ромб из пола радиусом radius вокруг (0,0)
func floorGrid(radius int) *domain.Grid {
	g := domain.NewGrid()
	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			h := domain.NewHex(q, r)
			if h.DistanceTo(domain.NewHex(0, 0)) <= radius {
				g.SetTile(h, domain.TileFloor)
			}
		}
	}
	return g
}

func place(g *domain.Grid, e *domain.Entity, h domain.Hex) *domain.Entity {
	e.Pos = h
	g.Occupy(h, e.ID)
	return e
}
