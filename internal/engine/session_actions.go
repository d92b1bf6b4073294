package engine

import (
	"errors"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/internal/systems"

	"github.com/sirupsen/logrus"
)

// actionHandler выполняет проверенное действие. combat - бой актора (nil вне боя).
type actionHandler func(actor *domain.Entity, combat *Combat, action domain.Action) error

func (s *Session) registerHandlers() {
	s.handlers = map[domain.ActionType]actionHandler{
		domain.ActionMove:        s.handleMove,
		domain.ActionAttack:      s.handleAttack,
		domain.ActionCastAbility: s.handleCastAbility,
		domain.ActionEndTurn:     s.handleEndTurn,
	}
}

// HandleAction - единая точка входа действий игроков.
// Отказы возвращаются как *domain.ActionError и дублируются игроку событием error.
func (s *Session) HandleAction(entityID string, action domain.Action) error {
	var result error
	if err := s.do(func() { result = s.handleAction(entityID, action) }); err != nil {
		return err
	}
	return result
}

// EndTurn - сокращение для HandleAction(END_TURN)
func (s *Session) EndTurn(entityID string) error {
	return s.HandleAction(entityID, domain.EndTurnAction())
}

func (s *Session) handleAction(entityID string, action domain.Action) error {
	actor := s.entities[entityID]
	if actor == nil || actor.IsDead {
		return s.reject(actor, domain.NewActionError(domain.CodePlayerIsDead, "actor is dead or gone"))
	}

	var combat *Combat
	if actor.InCombat() {
		combat = s.combatFor(actor.ID)
		if combat == nil || !combat.IsActive() {
			s.log.WithField("entity_id", actor.ID).Error("Entity is in combat state but has no combat. Action dropped.")
			return ErrCombatStateMismatch
		}
		if combat.CurrentTurn() != actor.ID {
			return s.reject(actor, domain.NewActionError(domain.CodeNotYourTurn, "it is %s's turn", combat.CurrentTurn()))
		}
	}

	handler, ok := s.handlers[action.Type]
	if !ok {
		return s.reject(actor, domain.NewActionError(domain.CodeUnknownAction, "unknown action %s", action.Type))
	}

	s.log.WithFields(logrus.Fields{
		"entity_id": actor.ID,
		"action":    action.Type.String(),
	}).Debug("Handling action")

	if err := handler(actor, combat, action); err != nil {
		var aerr *domain.ActionError
		if errors.As(err, &aerr) {
			return s.reject(actor, aerr)
		}
		return err
	}

	s.drainDeaths()
	if action.Type != domain.ActionEndTurn {
		s.autoEndTurn(actor)
	}
	return nil
}

// autoEndTurn завершает ход игрока, у которого кончились AP
func (s *Session) autoEndTurn(actor *domain.Entity) {
	if actor.IsAIControlled() || !actor.InCombat() || actor.AP > 0 {
		return
	}
	if c := s.combatFor(actor.ID); c != nil && c.CurrentTurn() == actor.ID {
		s.log.WithField("entity_id", actor.ID).Debug("Out of AP, ending turn")
		c.EndTurn()
	}
}

// --- MOVE ---

func (s *Session) handleMove(actor *domain.Entity, combat *Combat, action domain.Action) error {
	to := action.TargetHex
	if aerr := systems.ValidateStep(actor, to, s.grid); aerr != nil {
		return aerr
	}
	if combat != nil && !actor.HasAP(s.rules.MoveCost) {
		return domain.NewActionError(domain.CodeNotEnoughAP, "move costs %d AP, you have %d", s.rules.MoveCost, actor.AP)
	}

	from := actor.Pos
	if !s.grid.Move(from, to, actor.ID) {
		return domain.NewActionError(domain.CodeTileOccupied, "hex %s is occupied", to)
	}
	actor.Pos = to
	if combat != nil {
		actor.SpendAP(s.rules.MoveCost)
	}

	s.publish(domain.EventMoved, domain.MovedPayload{
		EntityID: actor.ID,
		Pos:      to,
		AP:       actor.AP,
		Path:     []domain.Hex{from, to},
	})

	s.checkProximity(actor)
	return nil
}

// --- ATTACK ---

func (s *Session) handleAttack(actor *domain.Entity, combat *Combat, action domain.Action) error {
	target := s.entities[action.TargetID]
	if aerr := systems.ValidateAttack(actor, target); aerr != nil {
		return aerr
	}
	hostile := domain.AreEnemies(actor, target)

	switch {
	case combat != nil:
		// Атакующий в бою: платит AP, враг вне боя втягивается в этот бой
		if !actor.HasAP(s.rules.AttackCost) {
			return domain.NewActionError(domain.CodeNotEnoughAP,
				"attack costs %d AP, you have %d", s.rules.AttackCost, actor.AP)
		}
		actor.SpendAP(s.rules.AttackCost)
		s.strike(actor, target)
		if hostile && target.State == domain.StateExploring {
			s.joinCombat(combat, systems.GatherGroup(actor, target, s.sortedEntities(), s.rules.JoinRadius))
		}

	case target.InCombat():
		// Цель уже в бою: удар и вход группы атакующего в её бой
		if !hostile {
			return domain.NewActionError(domain.CodeInvalidTarget, "%s is your ally", target.Name)
		}
		tc := s.combatFor(target.ID)
		if tc == nil {
			s.log.WithField("entity_id", target.ID).Error("Target is in combat state but has no combat.")
			return ErrCombatStateMismatch
		}
		s.strike(actor, target)
		s.joinCombat(tc, systems.NearbyAllies(actor, s.sortedEntities(), s.rules.JoinRadius))

	case !hostile:
		// Своя команда: только урон
		s.strike(actor, target)

	default:
		// Оба вне боя и враждебны: бесплатный первый удар и новый бой
		s.strike(actor, target)
		if !target.IsDead {
			s.startCombat(actor, target)
		}
	}
	return nil
}

// strike - базовая атака с рассылкой результата
func (s *Session) strike(actor, target *domain.Entity) {
	res := systems.ApplyAttack(actor, target)
	if res.Killed {
		s.recordDeath(target.ID)
	}

	s.publish(domain.EventAttacked, domain.AttackedPayload{
		AttackerID: actor.ID,
		TargetID:   target.ID,
		Damage:     res,
	})
	s.publish(domain.EventStatsUpdated, domain.StatsOf(target))
	if actor.InCombat() {
		s.publish(domain.EventStatsUpdated, domain.StatsOf(actor))
	}
}

// --- CAST_ABILITY ---

func (s *Session) handleCastAbility(actor *domain.Entity, combat *Combat, action domain.Action) error {
	if actor.Ability(action.AbilityID) == nil {
		return domain.NewActionError(domain.CodeUnknownAbility, "unknown ability %q", action.AbilityID)
	}

	out, aerr := s.resolver.Cast(actor, action.AbilityID, action.TargetHex, s.sortedEntities())
	if aerr != nil {
		return aerr
	}
	for _, id := range out.Killed {
		s.recordDeath(id)
	}

	s.publish(domain.EventCasterStateUpdated, domain.CasterStateOf(actor))
	s.publish(domain.EventAbilityCasted, domain.AbilityCastedPayload{
		CasterID:  actor.ID,
		AbilityID: action.AbilityID,
		TargetHex: action.TargetHex,
		Results:   out.Results,
	})
	for _, t := range out.Affected {
		s.publish(domain.EventStatsUpdated, domain.StatsOf(t))
	}

	if !out.DealtDamage() {
		return nil
	}

	// Урон по врагу запускает или расширяет бой, как обычная атака
	for _, t := range out.Affected {
		if t.IsDead || !domain.AreEnemies(actor, t) {
			continue
		}
		switch {
		case combat != nil:
			if t.State == domain.StateExploring {
				s.joinCombat(combat, systems.GatherGroup(actor, t, s.sortedEntities(), s.rules.JoinRadius))
			}
		case t.InCombat():
			if tc := s.combatFor(t.ID); tc != nil {
				s.joinCombat(tc, systems.NearbyAllies(actor, s.sortedEntities(), s.rules.JoinRadius))
				combat = tc
			}
		default:
			combat = s.startCombat(actor, t)
		}
		if combat != nil && combat.IsFinished() {
			combat = nil
		}
	}
	return nil
}

// --- END_TURN ---

func (s *Session) handleEndTurn(actor *domain.Entity, combat *Combat, _ domain.Action) error {
	if combat == nil {
		return domain.NewActionError(domain.CodeNotInCombat, "you are not in combat")
	}
	combat.EndTurn()
	return nil
}
