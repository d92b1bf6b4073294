package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/internal/systems"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"

	"github.com/sirupsen/logrus"
)

var (
	ErrSessionClosed       = errors.New("session is closed")
	ErrCombatStateMismatch = errors.New("entity is in combat state without an active combat")
)

// Notifier - доставка событий клиентам
type Notifier interface {
	// Publish - всем участникам сессии
	Publish(sessionID string, evt domain.Event)
	// NotifyUser - лично одному пользователю
	NotifyUser(userID string, evt domain.Event)
}

// EntityFactory создаёт сущности из шаблонов контента
type EntityFactory interface {
	CreatePlayer(classID string, player domain.PlayerComponent, pos domain.Hex) (*domain.Entity, error)
	CreateMonster(templateID string, pos domain.Hex) (*domain.Entity, error)
}

// Session - одна игровая сессия: карта, сущности, бои.
// Всё состояние меняется только внутри цикла Run, публичные методы ставят задачу в очередь и ждут.
type Session struct {
	ID string

	grid     *domain.Grid
	entities map[string]*domain.Entity
	combats  map[string]*Combat

	invites    map[string]string          // ID приглашённого -> ID команды
	peaceVotes map[string]map[string]bool // ID боя -> ID проголосовавшего -> да
	deaths     []string                   // очередь смертей текущего шага

	rules    Rules
	notifier Notifier
	factory  EntityFactory
	resolver *systems.AbilityResolver
	handlers map[domain.ActionType]actionHandler
	host     *combatHost

	inbox chan func()
	done  chan struct{}
	now   func() time.Time

	log *logrus.Entry
}

// NewSession создаёт сессию на готовой карте. Начальные сущности (монстры) сразу ставятся на карту.
func NewSession(id string, grid *domain.Grid, initial []*domain.Entity, factory EntityFactory, notifier Notifier, rules Rules) (*Session, error) {
	s := &Session{
		ID:         id,
		grid:       grid,
		entities:   make(map[string]*domain.Entity),
		combats:    make(map[string]*Combat),
		invites:    make(map[string]string),
		peaceVotes: make(map[string]map[string]bool),
		rules:      rules,
		notifier:   notifier,
		factory:    factory,
		resolver:   systems.NewAbilityResolver(rules.SecondsPerTurn),
		inbox:      make(chan func(), 128),
		done:       make(chan struct{}),
		now:        time.Now,
		log: logger.Log.WithFields(logrus.Fields{
			"component":  "session",
			"session_id": id,
		}),
	}
	s.host = &combatHost{s: s}
	s.resolver.Now = func() time.Time { return s.now() }
	s.registerHandlers()

	for _, e := range initial {
		if err := s.addEntity(e); err != nil {
			return nil, fmt.Errorf("place %s: %w", e.ID, err)
		}
	}
	return s, nil
}

// Run - цикл сессии. Блокирует до отмены ctx.
func (s *Session) Run(ctx context.Context) {
	s.log.Info("Session loop started")
	defer func() {
		close(s.done)
		s.log.Info("Session loop stopped")
	}()

	for {
		select {
		case fn := <-s.inbox:
			s.exec(fn)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithField("panic", r).Error("Session task panicked")
		}
	}()
	fn()
}

// do ставит задачу в цикл и ждёт её выполнения
func (s *Session) do(fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}
	select {
	case s.inbox <- task:
	case <-s.done:
		return ErrSessionClosed
	}
	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// post ставит задачу в цикл без ожидания. Только для таймеров: из самого цикла вызывать нельзя.
func (s *Session) post(fn func()) {
	select {
	case s.inbox <- fn:
	case <-s.done:
	}
}

// after выполняет fn в цикле сессии через delay
func (s *Session) after(delay time.Duration, fn func()) {
	time.AfterFunc(delay, func() { s.post(fn) })
}

// --- Реестр сущностей (только внутри цикла) ---

func (s *Session) addEntity(e *domain.Entity) error {
	if _, exists := s.entities[e.ID]; exists {
		return fmt.Errorf("entity %s already registered", e.ID)
	}
	if !s.grid.IsWalkable(e.Pos) {
		return fmt.Errorf("hex %s is not walkable", e.Pos)
	}
	if !s.grid.Occupy(e.Pos, e.ID) {
		return fmt.Errorf("hex %s is occupied", e.Pos)
	}
	s.entities[e.ID] = e
	return nil
}

func (s *Session) removeEntity(e *domain.Entity) {
	s.grid.Vacate(e.Pos, e.ID)
	delete(s.entities, e.ID)
}

// sortedEntities - все сущности в порядке ID (для детерминизма)
func (s *Session) sortedEntities() []*domain.Entity {
	list := make([]*domain.Entity, 0, len(s.entities))
	for _, e := range s.entities {
		list = append(list, e)
	}
	systems.SortByID(list)
	return list
}

func (s *Session) playerByUser(userID string) *domain.Entity {
	for _, e := range s.entities {
		if e.Player != nil && e.Player.UserID == userID {
			return e
		}
	}
	return nil
}

func (s *Session) playerByConnection(connectionID string) *domain.Entity {
	for _, e := range s.entities {
		if e.Player != nil && e.Player.ConnectionID == connectionID {
			return e
		}
	}
	return nil
}

// combatFor - активный бой, в котором участвует id
func (s *Session) combatFor(id string) *Combat {
	for _, c := range s.combats {
		if !c.IsFinished() && c.Has(id) {
			return c
		}
	}
	return nil
}

// --- События ---

func (s *Session) publish(t domain.EventType, payload any) {
	s.notifier.Publish(s.ID, domain.NewEvent(t, payload))
}

func (s *Session) notifyUser(e *domain.Entity, t domain.EventType, payload any) {
	if e == nil || e.Player == nil {
		return
	}
	s.notifier.NotifyUser(e.Player.UserID, domain.NewEvent(t, payload))
}

// reject логирует отказ и отправляет его лично игроку
func (s *Session) reject(actor *domain.Entity, aerr *domain.ActionError) error {
	fields := logrus.Fields{"code": aerr.Code}
	if actor != nil {
		fields["entity_id"] = actor.ID
	}
	s.log.WithFields(fields).Warn(aerr.Message)
	s.notifyUser(actor, domain.EventError, aerr)
	return aerr
}

// drainDeaths разбирает очередь смертей: бой решает сам, вне боя - просто объявление
func (s *Session) drainDeaths() {
	for len(s.deaths) > 0 {
		id := s.deaths[0]
		s.deaths = s.deaths[1:]

		if c := s.combatFor(id); c != nil {
			c.OnDeath(id)
			continue
		}
		s.publish(domain.EventEntityDied, domain.EntityDiedPayload{EntityID: id})
	}
}

func (s *Session) recordDeath(id string) {
	s.deaths = append(s.deaths, id)
}

// --- Чтение ---

// EntitySnapshot возвращает копию сущности
func (s *Session) EntitySnapshot(id string) (*domain.Entity, error) {
	var out *domain.Entity
	err := s.do(func() {
		if e := s.entities[id]; e != nil {
			out = e.Clone()
		}
	})
	return out, err
}

// Snapshot - полный снимок сессии
func (s *Session) Snapshot() (SessionSnapshot, error) {
	var snap SessionSnapshot
	err := s.do(func() { snap = s.buildSnapshot() })
	return snap, err
}

// PlayerCount - число подключённых игроков
func (s *Session) PlayerCount() (int, error) {
	n := 0
	err := s.do(func() {
		for _, e := range s.entities {
			if e.IsPlayer() {
				n++
			}
		}
	})
	return n, err
}

// --- Хост для боёв ---

type combatHost struct {
	s *Session
}

func (h *combatHost) Entity(id string) *domain.Entity {
	return h.s.entities[id]
}

func (h *combatHost) Emit(evt domain.Event) {
	h.s.notifier.Publish(h.s.ID, evt)
}

func (h *combatHost) ScheduleAITurn(combatID, entityID string, serial uint64) {
	h.s.scheduleAITurn(combatID, entityID, serial)
}

func (h *combatHost) CombatFinished(c *Combat, outcome domain.CombatOutcome, winningTeam string, participants []*domain.Entity) {
	h.s.combatFinished(c, outcome, winningTeam, participants)
}
