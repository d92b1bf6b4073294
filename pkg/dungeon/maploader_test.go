package dungeon

import (
	"errors"
	"strings"
	"testing"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
)

func TestLoadMap_Symbols(t *testing.T) {
	src := strings.Join([]string{
		"# комментарий занимает ряд 0",
		"WP.B",
		"-.M~_",
	}, "\n")

	g, err := LoadMap(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadMap failed: %v", err)
	}

	tests := []struct {
		name string
		hex  domain.Hex
		want domain.TileType
	}{
		{"wall", domain.NewHex(0, 1), domain.TileWall},
		{"player spawn is floor", domain.NewHex(1, 1), domain.TileFloor},
		{"floor", domain.NewHex(2, 1), domain.TileFloor},
		{"boss spawn is floor", domain.NewHex(3, 1), domain.TileFloor},
		{"odd row offset", domain.NewHex(0, 2), domain.TileFloor},
		{"water", domain.NewHex(2, 2), domain.TileWater},
		{"pit", domain.NewHex(3, 2), domain.TilePit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := g.Tile(tt.hex)
			if tile == nil {
				t.Fatalf("hex %s is missing", tt.hex)
			}
			if tile.Type != tt.want {
				t.Errorf("hex %s: got %s, want %s", tt.hex, tile.Type, tt.want)
			}
		})
	}

	if g.Has(domain.NewHex(-1, 2)) {
		t.Error("'-' must not create a tile")
	}
	if g.Len() != 8 {
		t.Errorf("expected 8 tiles, got %d", g.Len())
	}

	spawns := g.PlayerSpawns()
	if len(spawns) != 1 || spawns[0] != domain.NewHex(1, 1) {
		t.Errorf("unexpected player spawns: %v", spawns)
	}

	monsters := g.MonsterSpawns()
	if len(monsters) != 2 {
		t.Fatalf("expected 2 monster spawns, got %d", len(monsters))
	}
	if monsters[0].Symbol != 'B' || monsters[0].Pos != domain.NewHex(3, 1) {
		t.Errorf("unexpected first monster spawn: %+v", monsters[0])
	}
	if monsters[1].Symbol != 'M' || monsters[1].Pos != domain.NewHex(1, 2) {
		t.Errorf("unexpected second monster spawn: %+v", monsters[1])
	}
}

func TestLoadMap_Errors(t *testing.T) {
	if _, err := LoadMap(strings.NewReader("# только комментарий\n\n")); !errors.Is(err, ErrEmptyMap) {
		t.Errorf("expected ErrEmptyMap, got %v", err)
	}
	if _, err := LoadMap(strings.NewReader("W..W\nW.MW")); !errors.Is(err, domain.ErrNoSpawnPoints) {
		t.Errorf("expected ErrNoSpawnPoints, got %v", err)
	}
	if _, err := LoadMapFile("does-not-exist.txt"); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestLoadMap_DefaultMap(t *testing.T) {
	g, err := LoadMap(strings.NewReader(string(defaultMap)))
	if err != nil {
		t.Fatalf("default map must load: %v", err)
	}
	if n := len(g.PlayerSpawns()); n != 4 {
		t.Errorf("expected 4 player spawns, got %d", n)
	}
	for _, sp := range g.MonsterSpawns() {
		if !g.IsWalkable(sp.Pos) {
			t.Errorf("monster spawn %s is not walkable", sp.Pos)
		}
	}
}
