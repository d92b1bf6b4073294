package domain

import "time"

// EntityKind - тип сущности
type EntityKind uint8

const (
	KindPlayer EntityKind = iota
	KindMonster
)

func (k EntityKind) String() string {
	switch k {
	case KindPlayer:
		return "PLAYER"
	case KindMonster:
		return "MONSTER"
	}
	return "UNKNOWN"
}

// EntityState - фаза жизненного цикла сущности
type EntityState uint8

const (
	StateExploring EntityState = iota
	StateCombat
)

func (s EntityState) String() string {
	if s == StateCombat {
		return "COMBAT"
	}
	return "EXPLORING"
}

// CombatOutcome - итог боя
type CombatOutcome string

const (
	OutcomeVictory        CombatOutcome = "VICTORY"
	OutcomeDefeat         CombatOutcome = "DEFEAT"
	OutcomeEndByAgreement CombatOutcome = "END_BY_AGREEMENT"
)

// Значения по умолчанию для правил
const (
	DefaultSecondsPerTurn = 10 * time.Second
	DefaultAPPerTurn      = 4
	DefaultMoveCost       = 1
	DefaultAttackCost     = 2
	DefaultJoinRadius     = 3
	DefaultScanRadius     = 10
)

// Типы эффектов способностей
const (
	EffectDamage = "DAMAGE"
	EffectHeal   = "HEAL"
	EffectScript = "SCRIPT"
)
