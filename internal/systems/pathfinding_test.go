package systems

import (
	"testing"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
)

func assertValidPath(t *testing.T, g *domain.Grid, path []domain.Hex, start, target domain.Hex) {
	t.Helper()
	if len(path) == 0 {
		t.Fatalf("expected a path from %v to %v, got none", start, target)
	}
	if path[0] != start || path[len(path)-1] != target {
		t.Fatalf("path must start at %v and end at %v, got %v", start, target, path)
	}
	for i := 1; i < len(path); i++ {
		if path[i-1].DistanceTo(path[i]) != 1 {
			t.Errorf("steps %v -> %v are not adjacent", path[i-1], path[i])
		}
		if !g.IsWalkable(path[i]) {
			t.Errorf("path goes through non-walkable hex %v", path[i])
		}
	}
}

func TestFindPath(t *testing.T) {
	t.Run("start equals target", func(t *testing.T) {
		g := floorGrid(3)
		path := FindPath(g, domain.NewHex(1, 0), domain.NewHex(1, 0))
		if len(path) != 1 || path[0] != domain.NewHex(1, 0) {
			t.Errorf("expected [start], got %v", path)
		}
	})

	t.Run("open field gives shortest path", func(t *testing.T) {
		g := floorGrid(4)
		start, target := domain.NewHex(-3, 0), domain.NewHex(3, -2)
		path := FindPath(g, start, target)

		assertValidPath(t, g, path, start, target)
		if len(path) != start.DistanceTo(target)+1 {
			t.Errorf("expected %d hexes, got %d", start.DistanceTo(target)+1, len(path))
		}
	})

	t.Run("walls force a detour", func(t *testing.T) {
		g := floorGrid(4)
		// Стена поперёк по q = 0, кроме верхнего края
		for r := -3; r <= 4; r++ {
			if g.Has(domain.NewHex(0, r)) {
				g.SetTile(domain.NewHex(0, r), domain.TileWall)
			}
		}
		start, target := domain.NewHex(-2, 1), domain.NewHex(2, -1)
		path := FindPath(g, start, target)

		assertValidPath(t, g, path, start, target)
		if len(path) <= start.DistanceTo(target)+1 {
			t.Errorf("path should be longer than the straight line, got %v", path)
		}
	})

	t.Run("occupied hexes are avoided but the target may be occupied", func(t *testing.T) {
		g := floorGrid(3)
		start, target := domain.NewHex(-2, 0), domain.NewHex(2, 0)
		g.Occupy(domain.NewHex(0, 0), "blocker")
		g.Occupy(target, "goblin")

		path := FindPath(g, start, target)
		assertValidPath(t, g, path, start, target)
		for _, h := range path[1 : len(path)-1] {
			if g.OccupantAt(h) != "" {
				t.Errorf("path goes through occupied hex %v", h)
			}
		}
	})

	t.Run("no path cases return empty", func(t *testing.T) {
		g := floorGrid(3)
		target := domain.NewHex(0, 0)
		for _, n := range target.Neighbors() {
			g.SetTile(n, domain.TileWall)
		}

		if got := FindPath(g, domain.NewHex(-3, 0), target); len(got) != 0 {
			t.Errorf("enclosed target should be unreachable, got %v", got)
		}
		if got := FindPath(g, domain.NewHex(-3, 0), domain.NewHex(40, 40)); len(got) != 0 {
			t.Errorf("unregistered target should give empty path, got %v", got)
		}
		if got := FindPath(g, domain.NewHex(-3, 0), domain.NewHex(1, 0)); len(got) != 0 {
			t.Errorf("wall target should give empty path, got %v", got)
		}
		if got := FindPath(g, domain.NewHex(99, 0), domain.NewHex(-3, 0)); len(got) != 0 {
			t.Errorf("unregistered start should give empty path, got %v", got)
		}
	})
}
