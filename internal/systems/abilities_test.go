package systems

import (
	"testing"
	"time"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fireballTpl = &domain.AbilityTemplate{
		ID: "fireball", Name: "Fireball", CostAP: 3, Cooldown: 2, Range: 4, Radius: 1,
		Effects: []domain.EffectTemplate{{Type: domain.EffectDamage, Amount: 6}},
	}
	healTpl = &domain.AbilityTemplate{
		ID: "heal", Name: "Heal", CostAP: 2, Cooldown: 1, Range: 3, Radius: 0,
		Effects: []domain.EffectTemplate{{Type: domain.EffectHeal, Amount: 5}},
	}
	drainTpl = &domain.AbilityTemplate{
		ID: "soul_drain", Name: "Soul Drain", CostAP: 2, Cooldown: 3, Range: 2, Radius: 0,
		Effects: []domain.EffectTemplate{{Type: domain.EffectScript, Amount: 2, Script: "return amount + math.floor(caster.attack / 2)"}},
	}
)

func newCaster(abilities ...*domain.AbilityTemplate) *domain.Entity {
	e := &domain.Entity{ID: "mage", Name: "Mage", HP: 20, MaxHP: 20, Attack: 6, AP: 6, MaxAP: 6}
	for _, tpl := range abilities {
		e.Abilities = append(e.Abilities, domain.NewAbilityInstance(tpl))
	}
	return e
}

func fixedResolver(now time.Time) *AbilityResolver {
	r := NewAbilityResolver(10 * time.Second)
	r.Now = func() time.Time { return now }
	return r
}

func TestAbilityResolver_Validation(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	t.Run("validation order: cooldown before AP before range", func(t *testing.T) {
		r := fixedResolver(now)
		caster := newCaster(fireballTpl)
		caster.State = domain.StateCombat
		caster.AP = 0
		caster.Abilities[0].Cooldown = domain.TurnsRemaining(1)

		_, aerr := r.Cast(caster, "fireball", domain.NewHex(10, 0), nil)
		require.NotNil(t, aerr)
		assert.Equal(t, domain.CodeOnCooldown, aerr.Code)

		caster.Abilities[0].Cooldown = nil
		_, aerr = r.Cast(caster, "fireball", domain.NewHex(10, 0), nil)
		require.NotNil(t, aerr)
		assert.Equal(t, domain.CodeNotEnoughAP, aerr.Code)

		caster.AP = 6
		_, aerr = r.Cast(caster, "fireball", domain.NewHex(10, 0), nil)
		require.NotNil(t, aerr)
		assert.Equal(t, domain.CodeOutOfRange, aerr.Code)
		assert.Equal(t, 6, caster.AP, "failed cast must not spend AP")
	})

	t.Run("AP is not checked while exploring", func(t *testing.T) {
		r := fixedResolver(now)
		caster := newCaster(healTpl)
		caster.AP = 0

		_, aerr := r.Cast(caster, "heal", caster.Pos, []*domain.Entity{caster})
		assert.Nil(t, aerr)
		assert.Equal(t, 0, caster.AP)
	})

	t.Run("dead caster and unknown ability", func(t *testing.T) {
		r := fixedResolver(now)
		caster := newCaster(healTpl)

		_, aerr := r.Cast(caster, "nope", caster.Pos, nil)
		require.NotNil(t, aerr)
		assert.Equal(t, domain.CodeUnknownAbility, aerr.Code)

		caster.IsDead = true
		_, aerr = r.Cast(caster, "heal", caster.Pos, nil)
		require.NotNil(t, aerr)
		assert.Equal(t, domain.CodeCasterIsDead, aerr.Code)
	})
}

func TestAbilityResolver_Cooldowns(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	r := fixedResolver(now)

	t.Run("combat cast sets a turn cooldown and spends AP", func(t *testing.T) {
		caster := newCaster(fireballTpl)
		caster.State = domain.StateCombat

		_, aerr := r.Cast(caster, "fireball", domain.NewHex(2, 0), nil)
		require.Nil(t, aerr)
		assert.Equal(t, 3, caster.AP)
		assert.Equal(t, domain.TurnsRemaining(2), caster.Abilities[0].Cooldown)
	})

	t.Run("exploring cast sets a wall-clock cooldown", func(t *testing.T) {
		caster := newCaster(fireballTpl)

		_, aerr := r.Cast(caster, "fireball", domain.NewHex(2, 0), nil)
		require.Nil(t, aerr)
		cd, ok := caster.Abilities[0].Cooldown.(domain.ExpiresAt)
		require.True(t, ok)
		assert.True(t, time.Time(cd).Equal(now.Add(20*time.Second)))

		r.Now = func() time.Time { return now.Add(19 * time.Second) }
		_, aerr = r.Cast(caster, "fireball", domain.NewHex(2, 0), nil)
		require.NotNil(t, aerr)
		assert.Equal(t, domain.CodeOnCooldown, aerr.Code)

		r.Now = func() time.Time { return now.Add(20 * time.Second) }
		_, aerr = r.Cast(caster, "fireball", domain.NewHex(2, 0), nil)
		assert.Nil(t, aerr)
	})
}

func TestAbilityResolver_Targets(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	r := fixedResolver(now)

	t.Run("area damage hits everyone in radius and skips the dead", func(t *testing.T) {
		caster := newCaster(fireballTpl)
		center := domain.NewHex(3, 0)
		a := &domain.Entity{ID: "a", HP: 10, MaxHP: 10, Pos: center}
		b := &domain.Entity{ID: "b", HP: 4, MaxHP: 10, Pos: domain.NewHex(4, 0)}
		far := &domain.Entity{ID: "far", HP: 10, MaxHP: 10, Pos: domain.NewHex(6, 0)}
		corpse := &domain.Entity{ID: "corpse", IsDead: true, Pos: domain.NewHex(3, 1)}

		out, aerr := r.Cast(caster, "fireball", center, []*domain.Entity{caster, a, b, far, corpse})
		require.Nil(t, aerr)

		assert.Equal(t, 4, a.HP)
		assert.Equal(t, 0, b.HP)
		assert.Equal(t, 10, far.HP)
		assert.Len(t, out.Results, 2)
		assert.Equal(t, []string{"b"}, out.Killed)
		assert.True(t, out.DealtDamage())
	})

	t.Run("radius zero only affects the occupant of the hex", func(t *testing.T) {
		caster := newCaster(healTpl)
		ally := &domain.Entity{ID: "ally", HP: 3, MaxHP: 10, Pos: domain.NewHex(1, 0)}
		near := &domain.Entity{ID: "near", HP: 3, MaxHP: 10, Pos: domain.NewHex(2, 0)}

		out, aerr := r.Cast(caster, "heal", ally.Pos, []*domain.Entity{caster, ally, near})
		require.Nil(t, aerr)

		assert.Equal(t, 8, ally.HP)
		assert.Equal(t, 3, near.HP)
		require.Len(t, out.Results, 1)
		assert.Equal(t, 5, out.Results[0].Healed)
		assert.False(t, out.DealtDamage())
	})

	t.Run("script effect evaluates the formula", func(t *testing.T) {
		caster := newCaster(drainTpl)
		victim := &domain.Entity{ID: "victim", HP: 20, MaxHP: 20, Pos: domain.NewHex(1, 0)}

		out, aerr := r.Cast(caster, "soul_drain", victim.Pos, []*domain.Entity{caster, victim})
		require.Nil(t, aerr)

		// amount 2 + floor(6 / 2)
		assert.Equal(t, 15, victim.HP)
		require.Len(t, out.Results, 1)
		assert.Equal(t, domain.EffectScript, out.Results[0].Effect)
	})
}

func TestEvalScript(t *testing.T) {
	target := &domain.Entity{HP: 10, MaxHP: 30}

	v, err := EvalScript("return -(target.maxHp - target.hp) / 2", nil, target, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, -10, v)

	_, err = EvalScript("return 'text'", nil, target, 0, 0)
	assert.Error(t, err)

	_, err = EvalScript("while true do end", nil, target, 0, 20*time.Millisecond)
	assert.Error(t, err, "runaway scripts must be stopped")

	_, err = EvalScript("return dofile('/etc/passwd')", nil, target, 0, 0)
	assert.Error(t, err)
}
