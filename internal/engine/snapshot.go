package engine

import (
	"sort"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
)

// TileView - клетка карты для клиента
type TileView struct {
	Pos        domain.Hex `json:"pos"`
	Type       string     `json:"type"`
	OccupantID string     `json:"occupantId,omitempty"`
}

// CombatView - состояние одного боя
type CombatView struct {
	ID          string              `json:"id"`
	Teams       map[string][]string `json:"teams"`
	TurnOrder   []string            `json:"turnOrder"`
	CurrentTurn string              `json:"currentTurn"`
}

// SessionSnapshot - полный снимок сессии (для нового клиента и отладки)
type SessionSnapshot struct {
	ID       string              `json:"sessionId"`
	Entities []domain.EntityView `json:"entities"`
	Tiles    []TileView          `json:"tiles"`
	Combats  []CombatView        `json:"combats"`
}

func (s *Session) buildSnapshot() SessionSnapshot {
	snap := SessionSnapshot{
		ID:       s.ID,
		Entities: make([]domain.EntityView, 0, len(s.entities)),
		Tiles:    make([]TileView, 0, s.grid.Len()),
		Combats:  make([]CombatView, 0, len(s.combats)),
	}

	for _, e := range s.sortedEntities() {
		snap.Entities = append(snap.Entities, e.View())
	}
	for _, ht := range s.grid.Tiles() {
		snap.Tiles = append(snap.Tiles, TileView{
			Pos:        ht.Pos,
			Type:       ht.Tile.Type.String(),
			OccupantID: ht.Tile.OccupantID,
		})
	}
	for _, c := range s.combats {
		if !c.IsActive() {
			continue
		}
		snap.Combats = append(snap.Combats, CombatView{
			ID:          c.ID,
			Teams:       c.Teams(),
			TurnOrder:   c.TurnOrder(),
			CurrentTurn: c.CurrentTurn(),
		})
	}
	sort.Slice(snap.Combats, func(i, j int) bool { return snap.Combats[i].ID < snap.Combats[j].ID })
	return snap
}
