package dungeon

import (
	"strings"
	"testing"
	"time"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/internal/systems"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Equal(t, []string{"cleric", "mage", "warrior"}, c.ClassIDs())

	for _, id := range []string{"goblin_warrior", "lich_king_boss"} {
		_, ok := c.Monster(id)
		assert.True(t, ok, "monster %s must exist for map symbols", id)
	}

	fireball, ok := c.Ability("fireball")
	require.True(t, ok)
	assert.Equal(t, 1, fireball.Radius)
	assert.True(t, fireball.IsDamaging())
}

func TestDefaultCatalog_ScriptsEvaluate(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	caster := &domain.Entity{ID: "a", HP: 10, MaxHP: 10, Attack: 9}
	target := &domain.Entity{ID: "b", HP: 4, MaxHP: 20}

	tests := []struct {
		ability string
		want    int
	}{
		{"soul_drain", 2 + 4},
		{"smite", 3 * 2},
	}
	for _, tt := range tests {
		t.Run(tt.ability, func(t *testing.T) {
			tpl, ok := c.Ability(tt.ability)
			require.True(t, ok)
			require.Len(t, tpl.Effects, 1)

			eff := tpl.Effects[0]
			got, err := systems.EvalScript(eff.Script, caster, target, eff.Amount, 50*time.Millisecond)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadCatalog_Validation(t *testing.T) {
	t.Run("unknown ability reference", func(t *testing.T) {
		src := `
classes:
  - id: rogue
    abilities: [backstab]
`
		_, err := LoadCatalog(strings.NewReader(src))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backstab")
	})

	t.Run("duplicate ability", func(t *testing.T) {
		src := `
abilities:
  - id: zap
  - id: zap
`
		_, err := LoadCatalog(strings.NewReader(src))
		assert.Error(t, err)
	})

	t.Run("broken yaml", func(t *testing.T) {
		_, err := LoadCatalog(strings.NewReader("classes: ["))
		assert.Error(t, err)
	})
}
