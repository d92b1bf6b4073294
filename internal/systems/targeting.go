package systems

import (
	"sort"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
)

// SortByID сортирует срез сущностей по ID на месте
func SortByID(list []*domain.Entity) {
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
}

// EntitiesInRadius - все сущности (живые и мёртвые) в радиусе от центра
func EntitiesInRadius(list []*domain.Entity, center domain.Hex, radius int) []*domain.Entity {
	out := make([]*domain.Entity, 0)
	for _, e := range list {
		if e.Pos.DistanceTo(center) <= radius {
			out = append(out, e)
		}
	}
	return out
}

// NearestHostile ищет ближайшего живого врага. При равной дистанции - меньший ID.
func NearestHostile(actor *domain.Entity, list []*domain.Entity) *domain.Entity {
	var best *domain.Entity
	bestDist := 0
	for _, other := range list {
		if other.IsDead || !domain.AreEnemies(actor, other) {
			continue
		}
		d := actor.Pos.DistanceTo(other.Pos)
		if best == nil || d < bestDist || (d == bestDist && other.ID < best.ID) {
			best = other
			bestDist = d
		}
	}
	return best
}

// GatherGroup собирает стороны стычки: исследующих живых сущностей в радиусе от любой из сторон,
// чей командный ID совпадает с командой атакующего или цели, плюс сами стороны.
func GatherGroup(attacker, target *domain.Entity, list []*domain.Entity, radius int) []*domain.Entity {
	picked := map[string]bool{attacker.ID: true, target.ID: true}
	out := []*domain.Entity{attacker, target}

	for _, e := range list {
		if picked[e.ID] || e.IsDead || e.State != domain.StateExploring {
			continue
		}
		near := e.Pos.DistanceTo(attacker.Pos) <= radius || e.Pos.DistanceTo(target.Pos) <= radius
		if !near {
			continue
		}
		if domain.SameGroup(e, attacker) || domain.SameGroup(e, target) {
			picked[e.ID] = true
			out = append(out, e)
		}
	}
	return out
}

// NearbyAllies - исследующие живые союзники (та же непустая команда) в радиусе, включая самого actor
func NearbyAllies(actor *domain.Entity, list []*domain.Entity, radius int) []*domain.Entity {
	out := []*domain.Entity{actor}
	if actor.TeamID == "" {
		return out
	}
	for _, e := range list {
		if e.ID == actor.ID || e.IsDead || e.State != domain.StateExploring {
			continue
		}
		if e.TeamID == actor.TeamID && e.Pos.DistanceTo(actor.Pos) <= radius {
			out = append(out, e)
		}
	}
	return out
}
