package engine

import (
	"sort"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"

	"github.com/sirupsen/logrus"
)

// CombatHost - то, что бою нужно от сессии
type CombatHost interface {
	Entity(id string) *domain.Entity
	Emit(evt domain.Event)
	// ScheduleAITurn вызывается в начале хода сущности под управлением ИИ
	ScheduleAITurn(combatID, entityID string, serial uint64)
	// CombatFinished вызывается ровно один раз, после очистки команд и очереди
	CombatFinished(c *Combat, outcome domain.CombatOutcome, winningTeam string, participants []*domain.Entity)
}

type combatPhase uint8

const (
	phaseNotStarted combatPhase = iota
	phaseActive
	phaseFinished
)

// Combat - одна пошаговая стычка внутри сессии.
// Все методы вызываются только из цикла сессии.
type Combat struct {
	ID string

	host  CombatHost
	rules Rules

	// teamKey -> множество ID участников. Бескомандный участник - команда из себя.
	teams  map[string]map[string]struct{}
	order  []string
	cursor int
	phase  combatPhase

	// serial растёт с каждым новым ходом, им проверяются отложенные тики ИИ
	serial uint64

	log *logrus.Entry
}

// NewCombat разбивает участников на команды. Очередь строится в Start.
func NewCombat(id string, participants []*domain.Entity, host CombatHost, rules Rules) *Combat {
	c := &Combat{
		ID:     id,
		host:   host,
		rules:  rules,
		teams:  make(map[string]map[string]struct{}),
		cursor: -1,
		log: logger.Log.WithFields(logrus.Fields{
			"component": "combat",
			"combat_id": id,
		}),
	}
	for _, e := range participants {
		c.addToTeam(e)
	}
	return c
}

func (c *Combat) addToTeam(e *domain.Entity) {
	key := domain.TeamKey(e)
	members, ok := c.teams[key]
	if !ok {
		members = make(map[string]struct{})
		c.teams[key] = members
	}
	members[e.ID] = struct{}{}
}

// --- Чтение состояния ---

func (c *Combat) IsActive() bool   { return c.phase == phaseActive }
func (c *Combat) IsFinished() bool { return c.phase == phaseFinished }
func (c *Combat) Serial() uint64   { return c.serial }

// Has - является ли id участником
func (c *Combat) Has(id string) bool {
	for _, members := range c.teams {
		if _, ok := members[id]; ok {
			return true
		}
	}
	return false
}

// ParticipantIDs - все участники, отсортированные по ID
func (c *Combat) ParticipantIDs() []string {
	ids := make([]string, 0)
	for _, members := range c.teams {
		for id := range members {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (c *Combat) participants() []*domain.Entity {
	out := make([]*domain.Entity, 0)
	for _, id := range c.ParticipantIDs() {
		if e := c.host.Entity(id); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Teams - копия разбиения на команды
func (c *Combat) Teams() map[string][]string {
	out := make(map[string][]string, len(c.teams))
	for key, members := range c.teams {
		ids := make([]string, 0, len(members))
		for id := range members {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out[key] = ids
	}
	return out
}

func (c *Combat) TurnOrder() []string {
	return append([]string(nil), c.order...)
}

// CurrentTurn - ID того, чей сейчас ход ("" если хода нет)
func (c *Combat) CurrentTurn() string {
	if c.phase != phaseActive || c.cursor < 0 || c.cursor >= len(c.order) {
		return ""
	}
	return c.order[c.cursor]
}

func (c *Combat) alive(id string) bool {
	e := c.host.Entity(id)
	return e != nil && !e.IsDead
}

// livingTeams - ключи команд, в которых есть живой участник (отсортированы)
func (c *Combat) livingTeams() []string {
	keys := make([]string, 0, len(c.teams))
	for key, members := range c.teams {
		for id := range members {
			if c.alive(id) {
				keys = append(keys, key)
				break
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// sortByInitiative: инициатива по убыванию, при равенстве - ID по возрастанию.
// Отсутствующие сущности уходят в конец.
func (c *Combat) sortByInitiative(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := c.host.Entity(ids[i]), c.host.Entity(ids[j])
		if a == nil || b == nil {
			return a != nil
		}
		if a.Initiative != b.Initiative {
			return a.Initiative > b.Initiative
		}
		return a.ID < b.ID
	})
}

func (c *Combat) buildOrder() []string {
	ids := make([]string, 0)
	for _, id := range c.ParticipantIDs() {
		if c.alive(id) {
			ids = append(ids, id)
		}
	}
	c.sortByInitiative(ids)
	return ids
}

// --- Жизненный цикл ---

// Start строит очередь, объявляет бой и передаёт первый ход
func (c *Combat) Start() {
	if c.phase != phaseNotStarted {
		return
	}
	c.phase = phaseActive
	c.order = c.buildOrder()
	c.cursor = -1

	views := make([]domain.EntityView, 0)
	for _, e := range c.participants() {
		views = append(views, e.View())
	}
	c.host.Emit(domain.NewEvent(domain.EventCombatStarted, domain.CombatStartedPayload{
		CombatID:   c.ID,
		Teams:      c.Teams(),
		TurnOrder:  c.TurnOrder(),
		Combatants: views,
	}))
	c.log.WithFields(logrus.Fields{
		"teams":      len(c.teams),
		"turn_order": c.order,
	}).Info("Combat started.")

	if len(c.livingTeams()) <= 1 {
		c.EndByElimination()
		return
	}
	c.AdvanceTurn()
}

// AdvanceTurn передаёт ход следующему живому участнику.
// При выходе за конец очередь пересобирается из живых; если живых нет - бой окончен.
func (c *Combat) AdvanceTurn() {
	if c.phase != phaseActive {
		return
	}

	maxSteps := len(c.order) + len(c.ParticipantIDs()) + 1
	for step := 0; step < maxSteps; step++ {
		c.cursor++
		if c.cursor >= len(c.order) {
			c.order = c.buildOrder()
			c.cursor = 0
			if len(c.order) == 0 {
				c.EndByElimination()
				return
			}
		}

		id := c.order[c.cursor]
		e := c.host.Entity(id)
		if e == nil || e.IsDead || !c.Has(id) {
			continue
		}
		c.beginTurn(e)
		return
	}
	c.EndByElimination()
}

func (c *Combat) beginTurn(e *domain.Entity) {
	e.RefillAP(c.rules.APPerTurn)
	e.ReduceCooldowns()
	c.serial++

	c.host.Emit(domain.NewEvent(domain.EventTurnStarted, domain.TurnStartedPayload{
		CombatID:  c.ID,
		EntityID:  e.ID,
		AP:        e.AP,
		Cooldowns: e.CooldownViews(),
	}))
	c.log.WithFields(logrus.Fields{"entity_id": e.ID, "ap": e.AP}).Debug("Turn started.")

	if e.IsAIControlled() {
		c.host.ScheduleAITurn(c.ID, e.ID, c.serial)
	}
}

// EndTurn завершает ход текущего участника
func (c *Combat) EndTurn() {
	if c.phase != phaseActive {
		return
	}
	if holder := c.CurrentTurn(); holder != "" {
		c.host.Emit(domain.NewEvent(domain.EventTurnEnded, domain.TurnEndedPayload{
			CombatID: c.ID,
			EntityID: holder,
		}))
	}
	c.AdvanceTurn()
}

// AddParticipants вливает новичков в команды и в ещё не ходившую часть очереди.
// Уже ходившие в этом раунде и курсор не меняются. Возвращает ID добавленных.
func (c *Combat) AddParticipants(group []*domain.Entity) []string {
	if c.phase == phaseFinished {
		return nil
	}

	added := make([]string, 0)
	joined := make([]domain.EntityView, 0)
	for _, e := range group {
		if e == nil || e.IsDead || c.Has(e.ID) {
			continue
		}
		c.addToTeam(e)
		added = append(added, e.ID)
		joined = append(joined, e.View())
	}
	if len(added) == 0 {
		return added
	}

	if c.phase == phaseActive {
		split := c.cursor + 1
		if split < 0 {
			split = 0
		}
		if split > len(c.order) {
			split = len(c.order)
		}
		acted := append([]string(nil), c.order[:split]...)
		rest := append(append([]string(nil), c.order[split:]...), added...)
		c.sortByInitiative(rest)
		c.order = append(acted, rest...)
	}

	c.host.Emit(domain.NewEvent(domain.EventParticipantsJoined, domain.ParticipantsJoinedPayload{
		CombatID:  c.ID,
		NewIDs:    added,
		TurnOrder: c.TurnOrder(),
		Joined:    joined,
	}))
	c.log.WithField("joined", added).Info("Participants joined combat.")
	return added
}

// OnDeath - обработка смерти участника из очереди смертей сессии
func (c *Combat) OnDeath(id string) {
	if c.phase != phaseActive || !c.Has(id) {
		return
	}
	c.host.Emit(domain.NewEvent(domain.EventEntityDied, domain.EntityDiedPayload{
		EntityID: id,
		CombatID: c.ID,
	}))

	if len(c.livingTeams()) <= 1 {
		c.EndByElimination()
		return
	}
	if c.CurrentTurn() == id {
		c.AdvanceTurn()
	}
}

// RemoveParticipant убирает участника (отключение игрока)
func (c *Combat) RemoveParticipant(id string) {
	if !c.Has(id) {
		return
	}
	holder := c.CurrentTurn()
	for key, members := range c.teams {
		if _, ok := members[id]; ok {
			delete(members, id)
			if len(members) == 0 {
				delete(c.teams, key)
			}
			break
		}
	}
	if c.phase != phaseActive {
		return
	}

	if len(c.livingTeams()) <= 1 {
		c.EndByElimination()
		return
	}
	if holder == id {
		c.AdvanceTurn()
	}
}

// EndByElimination завершает бой по выбыванию. Идемпотентна.
func (c *Combat) EndByElimination() {
	if c.phase == phaseFinished {
		return
	}
	winner := ""
	if living := c.livingTeams(); len(living) == 1 {
		winner = living[0]
	}
	outcome := domain.OutcomeDefeat
	if winner != "" {
		outcome = domain.OutcomeVictory
	}
	c.finish(outcome, winner)
}

// EndByAgreement завершает бой миром
func (c *Combat) EndByAgreement() {
	if c.phase == phaseFinished {
		return
	}
	c.finish(domain.OutcomeEndByAgreement, "")
}

func (c *Combat) finish(outcome domain.CombatOutcome, winner string) {
	participants := c.participants()

	c.phase = phaseFinished
	c.teams = make(map[string]map[string]struct{})
	c.order = nil
	c.cursor = -1

	c.log.WithFields(logrus.Fields{
		"outcome":      outcome,
		"winning_team": winner,
	}).Info("Combat ended.")
	c.host.CombatFinished(c, outcome, winner, participants)
}
