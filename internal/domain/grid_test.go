package domain

import (
	"errors"
	"testing"
)

func TestGrid_Occupancy(t *testing.T) {
	g := NewGrid()
	g.SetTile(NewHex(0, 0), TileFloor)
	g.SetTile(NewHex(1, 0), TileFloor)
	g.SetTile(NewHex(2, 0), TileWall)

	if !g.Occupy(NewHex(0, 0), "hero") {
		t.Fatal("Occupy should succeed on a free floor tile")
	}
	if g.Occupy(NewHex(0, 0), "goblin") {
		t.Error("Occupy should fail when another entity holds the tile")
	}
	if g.IsPassable(NewHex(0, 0)) {
		t.Error("occupied tile must not be passable")
	}
	if g.IsPassable(NewHex(2, 0)) || g.IsWalkable(NewHex(2, 0)) {
		t.Error("wall must not be walkable")
	}
	if g.IsPassable(NewHex(9, 9)) {
		t.Error("unregistered hex must not be passable")
	}

	if !g.Move(NewHex(0, 0), NewHex(1, 0), "hero") {
		t.Fatal("Move to a free tile should succeed")
	}
	if g.OccupantAt(NewHex(0, 0)) != "" || g.OccupantAt(NewHex(1, 0)) != "hero" {
		t.Error("Move should transfer occupancy")
	}

	g.Vacate(NewHex(1, 0), "someone-else")
	if g.OccupantAt(NewHex(1, 0)) != "hero" {
		t.Error("Vacate must only clear the tile for its occupant")
	}
}

func TestGrid_PlayerSpawnRoundRobin(t *testing.T) {
	g := NewGrid()
	if _, err := g.NextPlayerSpawn(); !errors.Is(err, ErrNoSpawnPoints) {
		t.Fatalf("expected ErrNoSpawnPoints, got %v", err)
	}

	a, b := NewHex(0, 0), NewHex(1, 0)
	g.SetTile(a, TileFloor)
	g.SetTile(b, TileFloor)
	g.AddPlayerSpawn(a)
	g.AddPlayerSpawn(b)

	got := []Hex{}
	for i := 0; i < 3; i++ {
		h, err := g.NextPlayerSpawn()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, h)
	}
	if got[0] != a || got[1] != b || got[2] != a {
		t.Errorf("unexpected spawn order: %v", got)
	}

	g.Occupy(b, "p1")
	h, err := g.FreePlayerSpawn()
	if err != nil || h != a {
		t.Errorf("FreePlayerSpawn should skip occupied points, got %v, %v", h, err)
	}
	g.Occupy(a, "p2")
	if _, err := g.FreePlayerSpawn(); err == nil {
		t.Error("FreePlayerSpawn should fail when every spawn point is occupied")
	}
}
