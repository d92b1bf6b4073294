package domain

import "strings"

// TileType - тип клетки карты
type TileType uint8

const (
	TileFloor TileType = iota
	TileWall
	TileDoor
	TilePit
	TileWater
)

var tileTypeToString = map[TileType]string{
	TileFloor: "FLOOR",
	TileWall:  "WALL",
	TileDoor:  "DOOR",
	TilePit:   "PIT",
	TileWater: "WATER",
}

func (t TileType) String() string {
	if val, ok := tileTypeToString[t]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseTileType конвертирует строку в TileType. Неизвестное значение - пол.
func ParseTileType(s string) TileType {
	upper := strings.ToUpper(s)
	for k, v := range tileTypeToString {
		if v == upper {
			return k
		}
	}
	return TileFloor
}

// Walkable - стена единственный непроходимый тип
func (t TileType) Walkable() bool {
	return t != TileWall
}

// Tile - клетка карты и её текущий занявший (если есть)
type Tile struct {
	Type       TileType
	OccupantID string // "" - свободна
}

func (t *Tile) IsWalkable() bool {
	return t.Type.Walkable()
}

func (t *Tile) IsOccupied() bool {
	return t.OccupantID != ""
}

// IsPassable: проходима и свободна
func (t *Tile) IsPassable() bool {
	return t.IsWalkable() && !t.IsOccupied()
}
