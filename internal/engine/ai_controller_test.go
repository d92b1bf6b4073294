package engine

import (
	"testing"
	"time"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAI_MonsterApproachesAndAttacks(t *testing.T) {
	rules := testRules()
	rules.AITickDelay = 5 * time.Millisecond

	p := at(newPlayer("p", "u1", ""), 0, 0)
	p.Initiative = 1
	m := at(newMonster("m", 20), 4, 0)
	m.AggroRadius = 3
	s, rec := startSession(t, floorGrid(5), rules, p, m)

	require.NoError(t, s.HandleAction("p", domain.MoveAction(domain.NewHex(1, 0))))

	require.Eventually(t, func() bool {
		var mine bool
		_ = s.do(func() {
			c := s.combatFor("p")
			mine = c != nil && c.CurrentTurn() == "p"
		})
		return mine
	}, 2*time.Second, 10*time.Millisecond, "monster turn should end on its own")

	inspect(t, s, func() {
		assert.Equal(t, domain.NewHex(2, 0), m.Pos)
		assert.Equal(t, 17, p.HP)
		assert.Equal(t, 0, m.AP)
	})
	assert.Equal(t, 3, rec.count(domain.EventMoved), "player step plus two monster steps")
	assert.Equal(t, 1, rec.count(domain.EventAttacked))
}

func TestAI_StaleTickIgnored(t *testing.T) {
	p := at(newPlayer("p", "u1", ""), 0, 0)
	p.Initiative = 1
	m := at(newMonster("m", 20), 1, 0)
	s, rec := startSession(t, floorGrid(2), testRules(), p, m)

	// Удар игрока начинает бой, первым ходит монстр
	require.NoError(t, s.HandleAction("p", domain.AttackAction("m")))
	rec.reset()

	inspect(t, s, func() {
		c := s.combatFor("m")
		if !assert.NotNil(t, c) || !assert.Equal(t, "m", c.CurrentTurn()) {
			return
		}

		s.aiTick(c.ID, "m", c.Serial()+1, 0)
		s.aiTick(c.ID, "p", c.Serial(), 0)
		s.aiTick("missing", "m", c.Serial(), 0)
	})
	assert.Empty(t, rec.types())

	inspect(t, s, func() {
		c := s.combatFor("m")
		s.aiTick(c.ID, "m", c.Serial(), 0)
		assert.Equal(t, 17, p.HP)
	})
	assert.Equal(t, 1, rec.count(domain.EventAttacked))
}

func TestAI_ActionCapEndsTurn(t *testing.T) {
	p := at(newPlayer("p", "u1", ""), 0, 0)
	p.Initiative = 1
	m := at(newMonster("m", 20), 1, 0)
	s, rec := startSession(t, floorGrid(2), testRules(), p, m)
	require.NoError(t, s.HandleAction("p", domain.AttackAction("m")))
	rec.reset()

	inspect(t, s, func() {
		c := s.combatFor("m")
		s.aiTick(c.ID, "m", c.Serial(), s.rules.AIMaxActions)
		assert.Equal(t, "p", c.CurrentTurn())
		assert.Equal(t, 20, p.HP)
	})
	assert.Equal(t, 1, rec.count(domain.EventTurnEnded))
}
