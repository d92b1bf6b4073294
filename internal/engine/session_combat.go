package engine

import (
	"sort"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/internal/systems"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// startCombat создаёт бой между группами attacker и target
func (s *Session) startCombat(attacker, target *domain.Entity) *Combat {
	group := systems.GatherGroup(attacker, target, s.sortedEntities(), s.rules.JoinRadius)
	return s.openCombat(group, logrus.Fields{"attacker_id": attacker.ID, "target_id": target.ID})
}

// openCombat регистрирует и запускает бой для готового списка участников
func (s *Session) openCombat(group []*domain.Entity, fields logrus.Fields) *Combat {
	c := NewCombat(uuid.NewString(), group, s.host, s.rules)
	s.combats[c.ID] = c
	s.enterCombat(group)

	s.log.WithFields(fields).WithFields(logrus.Fields{
		"combat_id":    c.ID,
		"participants": len(group),
	}).Info("Starting combat")

	c.Start()
	return c
}

// joinCombat вливает исследующих живых сущностей из group в активный бой
func (s *Session) joinCombat(c *Combat, group []*domain.Entity) {
	if c == nil || !c.IsActive() {
		return
	}
	fresh := make([]*domain.Entity, 0, len(group))
	for _, e := range group {
		if e.IsDead || e.State != domain.StateExploring || c.Has(e.ID) {
			continue
		}
		fresh = append(fresh, e)
	}
	if len(fresh) == 0 {
		return
	}
	s.enterCombat(fresh)
	c.AddParticipants(fresh)
}

// enterCombat переводит сущностей в бой и пересчитывает кулдауны в ходы
func (s *Session) enterCombat(group []*domain.Entity) {
	now := s.now()
	for _, e := range group {
		e.State = domain.StateCombat
		e.ConvertCooldowns(domain.StateCombat, now, s.rules.SecondsPerTurn)
		s.publish(domain.EventCasterStateUpdated, domain.CasterStateOf(e))
	}
}

// combatFinished - финал боя: все участники возвращаются к исследованию, бой удаляется с задержкой
func (s *Session) combatFinished(c *Combat, outcome domain.CombatOutcome, winningTeam string, participants []*domain.Entity) {
	delete(s.peaceVotes, c.ID)

	now := s.now()
	for _, e := range participants {
		e.State = domain.StateExploring
		e.ConvertCooldowns(domain.StateExploring, now, s.rules.SecondsPerTurn)
	}

	s.publish(domain.EventCombatEnded, domain.CombatEndedPayload{
		CombatID:      c.ID,
		Outcome:       outcome,
		WinningTeamID: winningTeam,
	})
	for _, e := range participants {
		s.publish(domain.EventCasterStateUpdated, domain.CasterStateOf(e))
	}

	id := c.ID
	s.after(s.rules.CleanupDelay, func() {
		if old, ok := s.combats[id]; ok && old.IsFinished() {
			delete(s.combats, id)
			s.log.WithField("combat_id", id).Debug("Combat removed")
		}
	})
}

func inAggro(a, b *domain.Entity) bool {
	d := a.Pos.DistanceTo(b.Pos)
	return d <= a.AggroRadius || d <= b.AggroRadius
}

// checkProximity - поиск стычки после перемещения mover (только в режиме исследования).
// Враг в радиусе поиска, который уже в бою, имеет приоритет: группа mover входит в его бой.
// Иначе бой начинается со всеми исследующими врагами, до которых дотягивается aggro.
func (s *Session) checkProximity(mover *domain.Entity) {
	if mover.IsDead || mover.InCombat() {
		return
	}

	all := s.sortedEntities()
	var (
		nearby   []*domain.Entity
		fighting []*domain.Entity
	)
	for _, e := range all {
		if e.ID == mover.ID || e.IsDead || !domain.AreEnemies(mover, e) {
			continue
		}
		if mover.Pos.DistanceTo(e.Pos) > s.rules.ScanRadius {
			continue
		}
		switch {
		case e.InCombat():
			fighting = append(fighting, e)
		case inAggro(mover, e):
			nearby = append(nearby, e)
		}
	}
	byDistance := func(list []*domain.Entity) {
		sort.SliceStable(list, func(i, j int) bool {
			return mover.Pos.DistanceTo(list[i].Pos) < mover.Pos.DistanceTo(list[j].Pos)
		})
	}
	byDistance(fighting)
	byDistance(nearby)

	for _, e := range fighting {
		if c := s.combatFor(e.ID); c != nil && c.IsActive() {
			s.log.WithFields(logrus.Fields{"entity_id": mover.ID, "combat_id": c.ID}).Info("Joining nearby combat")
			s.joinCombat(c, systems.NearbyAllies(mover, all, s.rules.JoinRadius))
			return
		}
	}

	if len(nearby) == 0 {
		return
	}
	group := systems.GatherGroup(mover, nearby[0], all, s.rules.JoinRadius)
	picked := make(map[string]bool, len(group))
	for _, e := range group {
		picked[e.ID] = true
	}
	for _, e := range nearby[1:] {
		if !picked[e.ID] {
			picked[e.ID] = true
			group = append(group, e)
		}
	}
	s.openCombat(group, logrus.Fields{"entity_id": mover.ID, "trigger": "proximity"})
}
