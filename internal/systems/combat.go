package systems

import (
	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ApplyAttack наносит базовую атаку attacker по target.
// Урон = Attack атакующего, броня цели поглощает первой.
func ApplyAttack(attacker, target *domain.Entity) domain.DamageResult {
	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":     "combat_system",
		"attacker_id":   attacker.ID,
		"attacker_name": attacker.Name,
		"target_id":     target.ID,
		"target_name":   target.Name,
	})

	if target.IsDead {
		combatLogger.Info("Attack ineffective: target is already dead.")
		return domain.DamageResult{Dead: true}
	}

	hpBefore := target.HP
	armorBefore := target.Defense
	res := target.TakeDamage(attacker.Attack)

	combatLogger.WithFields(logrus.Fields{
		"damage":       attacker.Attack,
		"armor_before": armorBefore,
		"absorbed":     res.Absorbed,
		"hp_before":    hpBefore,
		"hp_after":     target.HP,
		"target_died":  res.Killed,
	}).Info("Attack resolved.")

	return res
}

// ValidateAttack проверяет цель базовой атаки
func ValidateAttack(attacker, target *domain.Entity) *domain.ActionError {
	if target == nil {
		return domain.NewActionError(domain.CodeTargetIsDead, "target not found")
	}
	if target.ID == attacker.ID {
		return domain.NewActionError(domain.CodeInvalidTarget, "cannot attack yourself")
	}
	if target.IsDead {
		return domain.NewActionError(domain.CodeTargetIsDead, "%s is already dead", target.Name)
	}
	if dist := attacker.Pos.DistanceTo(target.Pos); dist > attacker.AttackRange {
		return domain.NewActionError(domain.CodeTargetOutOfRange,
			"target is %d hexes away, attack range is %d", dist, attacker.AttackRange)
	}
	return nil
}
