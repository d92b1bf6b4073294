package systems

import (
	"fmt"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
)

// EffectContext - всё, что нужно стратегии эффекта
type EffectContext struct {
	Caster   *domain.Entity
	Target   *domain.Entity
	Template domain.EffectTemplate
}

// Effect - стратегия применения эффекта к одной живой цели
type Effect interface {
	Apply(ctx EffectContext) (domain.EffectResult, error)
}

// EffectFunc позволяет использовать функцию как Effect
type EffectFunc func(ctx EffectContext) (domain.EffectResult, error)

func (f EffectFunc) Apply(ctx EffectContext) (domain.EffectResult, error) {
	return f(ctx)
}

// EffectRegistry - стратегии по типу эффекта ("DAMAGE", "HEAL", ...)
type EffectRegistry struct {
	effects map[string]Effect
}

// NewEffectRegistry регистрирует встроенные стратегии
func NewEffectRegistry() *EffectRegistry {
	r := &EffectRegistry{effects: make(map[string]Effect)}
	r.Register(domain.EffectDamage, EffectFunc(applyDamage))
	r.Register(domain.EffectHeal, EffectFunc(applyHeal))
	r.Register(domain.EffectScript, NewScriptEffect(0))
	return r
}

func (r *EffectRegistry) Register(kind string, e Effect) {
	r.effects[kind] = e
}

func (r *EffectRegistry) Get(kind string) (Effect, bool) {
	e, ok := r.effects[kind]
	return e, ok
}

func applyDamage(ctx EffectContext) (domain.EffectResult, error) {
	res := ctx.Target.TakeDamage(ctx.Template.Amount)
	return domain.EffectResult{
		TargetID: ctx.Target.ID,
		Effect:   domain.EffectDamage,
		Damage:   &res,
		HP:       ctx.Target.HP,
	}, nil
}

func applyHeal(ctx EffectContext) (domain.EffectResult, error) {
	res := ctx.Target.TakeHeal(ctx.Template.Amount)
	return domain.EffectResult{
		TargetID: ctx.Target.ID,
		Effect:   domain.EffectHeal,
		Healed:   res.Healed,
		HP:       res.HP,
	}, nil
}

func errUnknownEffect(kind string) error {
	return fmt.Errorf("unknown effect type %q", kind)
}
