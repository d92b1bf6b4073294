package domain

import (
	"errors"
	"sort"
)

var ErrNoSpawnPoints = errors.New("map has no player spawn points")

// SpawnPoint - точка появления монстра с символом из карты ('M', 'B', ...)
type SpawnPoint struct {
	Pos    Hex
	Symbol rune
}

// Grid - гексовая карта сессии.
// Занятость клеток должна зеркалить позиции живых и мёртвых сущностей 1:1.
type Grid struct {
	tiles map[Hex]*Tile

	playerSpawns []Hex
	spawnCursor  int

	monsterSpawns []SpawnPoint
}

func NewGrid() *Grid {
	return &Grid{
		tiles: make(map[Hex]*Tile),
	}
}

// SetTile регистрирует клетку (перезаписывает тип, занятость сбрасывается)
func (g *Grid) SetTile(h Hex, t TileType) {
	g.tiles[h] = &Tile{Type: t}
}

// Tile возвращает клетку или nil, если гекс не зарегистрирован
func (g *Grid) Tile(h Hex) *Tile {
	return g.tiles[h]
}

func (g *Grid) Has(h Hex) bool {
	_, ok := g.tiles[h]
	return ok
}

func (g *Grid) Len() int {
	return len(g.tiles)
}

func (g *Grid) IsWalkable(h Hex) bool {
	t := g.tiles[h]
	return t != nil && t.IsWalkable()
}

func (g *Grid) IsPassable(h Hex) bool {
	t := g.tiles[h]
	return t != nil && t.IsPassable()
}

// OccupantAt возвращает ID занявшего клетку ("" - пусто или клетки нет)
func (g *Grid) OccupantAt(h Hex) string {
	if t := g.tiles[h]; t != nil {
		return t.OccupantID
	}
	return ""
}

// Occupy помечает клетку занятой. Возвращает false, если клетки нет или она занята другим.
func (g *Grid) Occupy(h Hex, entityID string) bool {
	t := g.tiles[h]
	if t == nil {
		return false
	}
	if t.OccupantID != "" && t.OccupantID != entityID {
		return false
	}
	t.OccupantID = entityID
	return true
}

// Vacate освобождает клетку, только если её занимает entityID
func (g *Grid) Vacate(h Hex, entityID string) {
	if t := g.tiles[h]; t != nil && t.OccupantID == entityID {
		t.OccupantID = ""
	}
}

// Move переносит занятость from -> to атомарно для карты
func (g *Grid) Move(from, to Hex, entityID string) bool {
	if !g.IsPassable(to) {
		return false
	}
	g.Vacate(from, entityID)
	return g.Occupy(to, entityID)
}

// --- Точки спавна ---

func (g *Grid) AddPlayerSpawn(h Hex) {
	g.playerSpawns = append(g.playerSpawns, h)
}

func (g *Grid) AddMonsterSpawn(h Hex, symbol rune) {
	g.monsterSpawns = append(g.monsterSpawns, SpawnPoint{Pos: h, Symbol: symbol})
}

func (g *Grid) PlayerSpawns() []Hex {
	return append([]Hex(nil), g.playerSpawns...)
}

func (g *Grid) MonsterSpawns() []SpawnPoint {
	return append([]SpawnPoint(nil), g.monsterSpawns...)
}

// NextPlayerSpawn выдаёт точки спавна по кругу
func (g *Grid) NextPlayerSpawn() (Hex, error) {
	if len(g.playerSpawns) == 0 {
		return Hex{}, ErrNoSpawnPoints
	}
	h := g.playerSpawns[g.spawnCursor%len(g.playerSpawns)]
	g.spawnCursor = (g.spawnCursor + 1) % len(g.playerSpawns)
	return h, nil
}

// FreePlayerSpawn - как NextPlayerSpawn, но пропускает занятые точки.
// Если все заняты, возвращает ошибку.
func (g *Grid) FreePlayerSpawn() (Hex, error) {
	for range g.playerSpawns {
		h, err := g.NextPlayerSpawn()
		if err != nil {
			return Hex{}, err
		}
		if g.IsPassable(h) {
			return h, nil
		}
	}
	if len(g.playerSpawns) == 0 {
		return Hex{}, ErrNoSpawnPoints
	}
	return Hex{}, errors.New("all player spawn points are occupied")
}

// HexTile - пара для снапшотов
type HexTile struct {
	Pos  Hex
	Tile Tile
}

// Tiles возвращает копии всех клеток, отсортированные по (r, q)
func (g *Grid) Tiles() []HexTile {
	out := make([]HexTile, 0, len(g.tiles))
	for h, t := range g.tiles {
		out = append(out, HexTile{Pos: h, Tile: *t})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.R != out[j].Pos.R {
			return out[i].Pos.R < out[j].Pos.R
		}
		return out[i].Pos.Q < out[j].Pos.Q
	})
	return out
}
