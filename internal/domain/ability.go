package domain

import (
	"math"
	"time"
)

// EffectTemplate - один эффект способности. Script используется только для SCRIPT.
type EffectTemplate struct {
	Type   string `json:"type" yaml:"type"`
	Amount int    `json:"amount" yaml:"amount"`
	Script string `json:"script,omitempty" yaml:"script,omitempty"`
}

// AbilityTemplate - неизменяемое описание способности из каталога
type AbilityTemplate struct {
	ID       string           `json:"id" yaml:"id"`
	Name     string           `json:"name" yaml:"name"`
	CostAP   int              `json:"costAp" yaml:"costAp"`
	Cooldown int              `json:"cooldown" yaml:"cooldown"` // в ходах
	Range    int              `json:"range" yaml:"range"`
	Radius   int              `json:"radius" yaml:"radius"` // 0 - только цель в гексе
	Effects  []EffectTemplate `json:"effects" yaml:"effects"`
}

// IsDamaging - есть ли у способности урон (для старта боя)
func (t *AbilityTemplate) IsDamaging() bool {
	for _, e := range t.Effects {
		if e.Type == EffectDamage || e.Type == EffectScript {
			return true
		}
	}
	return false
}

// --- Кулдаун: размеченное объединение ---

// Cooldown - либо TurnsRemaining (бой), либо ExpiresAt (исследование). nil - готово.
type Cooldown interface {
	isCooldown()
}

// TurnsRemaining - сколько ходов владельца осталось до готовности
type TurnsRemaining int

// ExpiresAt - момент, когда способность снова готова
type ExpiresAt time.Time

func (TurnsRemaining) isCooldown() {}
func (ExpiresAt) isCooldown()      {}

// CooldownReady - готова ли способность в момент now
func CooldownReady(cd Cooldown, now time.Time) bool {
	switch v := cd.(type) {
	case nil:
		return true
	case TurnsRemaining:
		return v <= 0
	case ExpiresAt:
		return !now.Before(time.Time(v))
	}
	return true
}

// ConvertCooldown - единственная функция перевода кулдауна между режимами.
// Вызывается только при входе/выходе сущности из боя.
func ConvertCooldown(cd Cooldown, to EntityState, now time.Time, perTurn time.Duration) Cooldown {
	if perTurn <= 0 {
		perTurn = DefaultSecondsPerTurn
	}
	switch v := cd.(type) {
	case TurnsRemaining:
		if v <= 0 {
			return nil
		}
		if to == StateCombat {
			return v
		}
		return ExpiresAt(now.Add(time.Duration(v) * perTurn))
	case ExpiresAt:
		left := time.Time(v).Sub(now)
		if left <= 0 {
			return nil
		}
		if to == StateExploring {
			return v
		}
		return TurnsRemaining(int(math.Ceil(float64(left) / float64(perTurn))))
	}
	return nil
}

// AbilityInstance - способность у конкретной сущности
type AbilityInstance struct {
	Template *AbilityTemplate
	Cooldown Cooldown
}

func NewAbilityInstance(t *AbilityTemplate) *AbilityInstance {
	return &AbilityInstance{Template: t}
}

func (a *AbilityInstance) ID() string {
	return a.Template.ID
}

func (a *AbilityInstance) Ready(now time.Time) bool {
	return CooldownReady(a.Cooldown, now)
}

// StartCooldown ставит кулдаун в режиме, соответствующем состоянию владельца
func (a *AbilityInstance) StartCooldown(state EntityState, now time.Time, perTurn time.Duration) {
	if a.Template.Cooldown <= 0 {
		a.Cooldown = nil
		return
	}
	if state == StateCombat {
		a.Cooldown = TurnsRemaining(a.Template.Cooldown)
		return
	}
	if perTurn <= 0 {
		perTurn = DefaultSecondsPerTurn
	}
	a.Cooldown = ExpiresAt(now.Add(time.Duration(a.Template.Cooldown) * perTurn))
}

// CooldownView - снимок кулдауна для клиента
type CooldownView struct {
	AbilityID       string `json:"abilityId"`
	TurnCooldown    int    `json:"turnCooldown"`
	CooldownEndTime int64  `json:"cooldownEndTime,omitempty"` // unix ms
}

func (a *AbilityInstance) View() CooldownView {
	v := CooldownView{AbilityID: a.ID()}
	switch cd := a.Cooldown.(type) {
	case TurnsRemaining:
		v.TurnCooldown = int(cd)
	case ExpiresAt:
		v.CooldownEndTime = time.Time(cd).UnixMilli()
	}
	return v
}
