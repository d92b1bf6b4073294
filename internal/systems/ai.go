package systems

import (
	"sort"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"

	"github.com/sirupsen/logrus"
)

// AICosts - стоимости действий, которые учитывает ИИ
type AICosts struct {
	MoveCost   int
	AttackCost int
}

// ComputeNPCAction решает, что делать монстру в свой ход.
// Цель - ближайший живой враг. Атакует, если может; иначе делает шаг к свободному гексу рядом с целью.
func ComputeNPCAction(npc *domain.Entity, entities []*domain.Entity, g *domain.Grid, costs AICosts) domain.Action {
	aiLogger := logger.Log.WithFields(logrus.Fields{
		"component": "ai_system",
		"npc_id":    npc.ID,
		"npc_name":  npc.Name,
		"ap":        npc.AP,
	})

	if npc.IsDead || npc.AP <= 0 {
		aiLogger.Debug("No AP or dead. Action: END_TURN")
		return domain.EndTurnAction()
	}

	target := NearestHostile(npc, entities)
	if target == nil {
		aiLogger.Debug("No hostile target. Action: END_TURN")
		return domain.EndTurnAction()
	}

	dist := npc.Pos.DistanceTo(target.Pos)
	aiLogger = aiLogger.WithFields(logrus.Fields{"target_id": target.ID, "distance": dist})

	if dist <= npc.AttackRange {
		if npc.HasAP(costs.AttackCost) {
			aiLogger.Debug("Target in attack range. Action: ATTACK")
			return domain.AttackAction(target.ID)
		}
		aiLogger.Debug("In range but not enough AP. Action: END_TURN")
		return domain.EndTurnAction()
	}

	if !npc.HasAP(costs.MoveCost) {
		aiLogger.Debug("Not enough AP to move. Action: END_TURN")
		return domain.EndTurnAction()
	}

	for _, dest := range approachHexes(npc, target, g) {
		path := FindPath(g, npc.Pos, dest)
		if len(path) >= 2 {
			aiLogger.WithField("step", path[1].String()).Debug("Path found. Action: MOVE")
			return domain.MoveAction(path[1])
		}
	}

	aiLogger.Debug("Path is blocked. Action: END_TURN")
	return domain.EndTurnAction()
}

// approachHexes - свободные гексы рядом с целью, ближайшие к npc первыми (при равенстве - порядок Directions)
func approachHexes(npc, target *domain.Entity, g *domain.Grid) []domain.Hex {
	type candidate struct {
		pos  domain.Hex
		dist int
		dir  int
	}
	list := make([]candidate, 0, len(domain.Directions))
	for dir := range domain.Directions {
		h := target.Pos.Neighbor(dir)
		if !g.IsPassable(h) {
			continue
		}
		list = append(list, candidate{pos: h, dist: npc.Pos.DistanceTo(h), dir: dir})
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].dist != list[j].dist {
			return list[i].dist < list[j].dist
		}
		return list[i].dir < list[j].dir
	})

	out := make([]domain.Hex, len(list))
	for i, c := range list {
		out[i] = c.pos
	}
	return out
}
