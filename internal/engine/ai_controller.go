package engine

import (
	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/internal/systems"

	"github.com/sirupsen/logrus"
)

// scheduleAITurn планирует первый тик ИИ для хода serial
func (s *Session) scheduleAITurn(combatID, entityID string, serial uint64) {
	s.armAITick(combatID, entityID, serial, 0)
}

func (s *Session) armAITick(combatID, entityID string, serial uint64, done int) {
	s.after(s.rules.AITickDelay, func() {
		s.aiTick(combatID, entityID, serial, done)
	})
}

// aiTurnValid - тик актуален, только если бой жив и это всё ещё тот же ход той же сущности
func (s *Session) aiTurnValid(combatID, entityID string, serial uint64) (*Combat, *domain.Entity, bool) {
	c := s.combats[combatID]
	if c == nil || !c.IsActive() || c.Serial() != serial || c.CurrentTurn() != entityID {
		return nil, nil, false
	}
	npc := s.entities[entityID]
	if npc == nil || npc.IsDead {
		return nil, nil, false
	}
	return c, npc, true
}

// aiTick - одно действие монстра. Выполняется в цикле сессии.
func (s *Session) aiTick(combatID, entityID string, serial uint64, done int) {
	c, npc, ok := s.aiTurnValid(combatID, entityID, serial)
	if !ok {
		return
	}
	aiLogger := s.log.WithFields(logrus.Fields{
		"component": "ai_controller",
		"combat_id": combatID,
		"npc_id":    entityID,
	})

	if done >= s.rules.AIMaxActions {
		aiLogger.Warn("AI action limit reached, ending turn")
		c.EndTurn()
		return
	}

	action := systems.ComputeNPCAction(npc, s.sortedEntities(), s.grid, s.rules.aiCosts())
	if err := s.handleAction(npc.ID, action); err != nil {
		aiLogger.WithError(err).Warn("AI action rejected, ending turn")
		if c, _, ok := s.aiTurnValid(combatID, entityID, serial); ok {
			c.EndTurn()
		}
		return
	}
	if action.Type == domain.ActionEndTurn {
		return
	}

	if _, _, ok := s.aiTurnValid(combatID, entityID, serial); ok {
		s.armAITick(combatID, entityID, serial, done+1)
	}
}
