package systems

import (
	"time"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"

	"github.com/sirupsen/logrus"
)

// CastOutcome - результат успешного применения способности
type CastOutcome struct {
	Ability   *domain.AbilityInstance
	TargetHex domain.Hex
	Results   []domain.EffectResult
	Affected  []*domain.Entity // живые цели, к которым применялись эффекты
	Killed    []string         // ID сущностей, погибших от этого применения
}

// DealtDamage - был ли нанесён урон хоть одной цели
func (o *CastOutcome) DealtDamage() bool {
	for _, r := range o.Results {
		if r.Damage != nil && r.Damage.Amount > 0 {
			return true
		}
	}
	return false
}

// AbilityResolver проверяет и применяет способности
type AbilityResolver struct {
	Effects *EffectRegistry
	PerTurn time.Duration // длина "хода" для перевода кулдауна в секунды
	Now     func() time.Time
}

func NewAbilityResolver(perTurn time.Duration) *AbilityResolver {
	return &AbilityResolver{
		Effects: NewEffectRegistry(),
		PerTurn: perTurn,
		Now:     time.Now,
	}
}

// Validate проверяет применимость: жив ли кастер -> кулдаун -> AP (только в бою) -> дальность
func (r *AbilityResolver) Validate(caster *domain.Entity, ability *domain.AbilityInstance, target domain.Hex) *domain.ActionError {
	if caster.IsDead {
		return domain.NewActionError(domain.CodeCasterIsDead, "caster is dead")
	}
	if ability == nil {
		return domain.NewActionError(domain.CodeUnknownAbility, "ability not found")
	}
	if !ability.Ready(r.Now()) {
		return domain.NewActionError(domain.CodeOnCooldown, "%s is on cooldown", ability.Template.Name)
	}
	if caster.InCombat() && !caster.HasAP(ability.Template.CostAP) {
		return domain.NewActionError(domain.CodeNotEnoughAP,
			"%s costs %d AP, you have %d", ability.Template.Name, ability.Template.CostAP, caster.AP)
	}
	if dist := caster.Pos.DistanceTo(target); dist > ability.Template.Range {
		return domain.NewActionError(domain.CodeOutOfRange,
			"target is %d hexes away, range is %d", dist, ability.Template.Range)
	}
	return nil
}

// Cast применяет способность caster в гекс target.
// candidates - все сущности сессии, из них выбираются цели в радиусе поражения.
func (r *AbilityResolver) Cast(caster *domain.Entity, abilityID string, target domain.Hex, candidates []*domain.Entity) (*CastOutcome, *domain.ActionError) {
	ability := caster.Ability(abilityID)
	if aerr := r.Validate(caster, ability, target); aerr != nil {
		return nil, aerr
	}
	tpl := ability.Template
	now := r.Now()

	// Списание ресурсов
	if caster.InCombat() {
		caster.SpendAP(tpl.CostAP)
	}
	ability.StartCooldown(caster.State, now, r.PerTurn)

	castLogger := logger.Log.WithFields(logrus.Fields{
		"component":  "ability_system",
		"caster_id":  caster.ID,
		"ability_id": tpl.ID,
		"target_hex": target.String(),
	})

	out := &CastOutcome{Ability: ability, TargetHex: target}
	for _, t := range r.TargetsInArea(tpl, target, candidates) {
		if t.IsDead {
			continue
		}
		out.Affected = append(out.Affected, t)
		for _, effTpl := range tpl.Effects {
			if t.IsDead {
				break
			}
			eff, ok := r.Effects.Get(effTpl.Type)
			if !ok {
				castLogger.WithError(errUnknownEffect(effTpl.Type)).Warn("Effect skipped.")
				continue
			}
			res, err := eff.Apply(EffectContext{Caster: caster, Target: t, Template: effTpl})
			if err != nil {
				castLogger.WithError(err).WithField("target_id", t.ID).Warn("Effect failed.")
				continue
			}
			out.Results = append(out.Results, res)
			if res.Damage != nil && res.Damage.Killed {
				out.Killed = append(out.Killed, t.ID)
			}
		}
	}

	castLogger.WithFields(logrus.Fields{
		"targets": len(out.Affected),
		"killed":  len(out.Killed),
	}).Info("Ability resolved.")
	return out, nil
}

// TargetsInArea: радиус 0 - только занявший гекс, иначе все в радиусе
func (r *AbilityResolver) TargetsInArea(tpl *domain.AbilityTemplate, target domain.Hex, candidates []*domain.Entity) []*domain.Entity {
	return EntitiesInRadius(candidates, target, tpl.Radius)
}
