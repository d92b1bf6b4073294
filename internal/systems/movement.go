package systems

import (
	"github.com/dota2-beta/Dungeon-Game/internal/domain"
)

// ValidateStep проверяет шаг на соседний гекс. Не меняет состояние мира!
// AP здесь не проверяется: стоимость зависит от фазы (бой/исследование).
func ValidateStep(e *domain.Entity, to domain.Hex, g *domain.Grid) *domain.ActionError {
	// 1. Только один шаг
	if e.Pos.DistanceTo(to) != 1 {
		return domain.NewActionError(domain.CodeMoveInvalidDistance,
			"can only move to an adjacent hex, distance is %d", e.Pos.DistanceTo(to))
	}

	// 2. Стены и пустота
	tile := g.Tile(to)
	if tile == nil || !tile.IsWalkable() {
		return domain.NewActionError(domain.CodeTileNotPassable, "hex %s is not passable", to)
	}

	// 3. Занятость
	if tile.IsOccupied() && tile.OccupantID != e.ID {
		return domain.NewActionError(domain.CodeTileOccupied, "hex %s is occupied", to)
	}
	return nil
}
