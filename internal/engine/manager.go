package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"

	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// DefaultSessionID - сессия для входа без явного ID
const DefaultSessionID = "default"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotJoined       = errors.New("connection is not bound to a player")
)

// WorldSource строит карту и начальных монстров для новой сессии
type WorldSource interface {
	NewWorld() (*domain.Grid, []*domain.Entity, error)
}

// Binding - к какой сессии и сущности привязано соединение
type Binding struct {
	SessionID string `json:"sessionId"`
	EntityID  string `json:"entityId"`
	UserID    string `json:"userId"`
}

type managedSession struct {
	session *Session
	cancel  context.CancelFunc
}

// Manager владеет сессиями: создаёт, маршрутизирует команды соединений, убирает пустые
type Manager struct {
	ctx context.Context

	mu       deadlock.RWMutex
	sessions map[string]*managedSession
	bindings map[string]Binding // connectionID -> привязка

	world    WorldSource
	factory  EntityFactory
	notifier Notifier
	rules    Rules

	log *logrus.Entry
}

func NewManager(ctx context.Context, world WorldSource, factory EntityFactory, notifier Notifier, rules Rules) *Manager {
	return &Manager{
		ctx:      ctx,
		sessions: make(map[string]*managedSession),
		bindings: make(map[string]Binding),
		world:    world,
		factory:  factory,
		notifier: notifier,
		rules:    rules,
		log:      logger.Component("session_manager"),
	}
}

// CreateSession строит мир и запускает цикл новой сессии. Пустой id - сгенерировать.
func (m *Manager) CreateSession(id string) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(id)
}

func (m *Manager) createLocked(id string) (*Session, error) {
	if ms, ok := m.sessions[id]; ok {
		return ms.session, nil
	}

	grid, monsters, err := m.world.NewWorld()
	if err != nil {
		return nil, fmt.Errorf("build world for session %s: %w", id, err)
	}
	s, err := NewSession(id, grid, monsters, m.factory, m.notifier, m.rules)
	if err != nil {
		return nil, fmt.Errorf("create session %s: %w", id, err)
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.sessions[id] = &managedSession{session: s, cancel: cancel}
	go s.Run(ctx)

	m.log.WithFields(logrus.Fields{
		"session_id": id,
		"monsters":   len(monsters),
	}).Info("Session created")
	return s, nil
}

// Session возвращает сессию по ID
func (m *Manager) Session(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ms, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return ms.session, true
}

// Sessions - ID всех живых сессий
func (m *Manager) Sessions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Join - вход пользователя в сессию (создаётся при необходимости) через соединение connectionID
func (m *Manager) Join(sessionID, connectionID, userID, classID string) (Binding, error) {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	m.mu.Lock()
	s, err := m.createLocked(sessionID)
	m.mu.Unlock()
	if err != nil {
		return Binding{}, err
	}

	entityID, err := s.JoinPlayer(userID, connectionID, classID)
	if err != nil {
		m.dropIfEmpty(sessionID)
		return Binding{}, err
	}

	b := Binding{SessionID: sessionID, EntityID: entityID, UserID: userID}
	m.mu.Lock()
	m.bindings[connectionID] = b
	m.mu.Unlock()
	return b, nil
}

// Binding - привязка соединения
func (m *Manager) Binding(connectionID string) (Binding, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bindings[connectionID]
	return b, ok
}

func (m *Manager) resolve(connectionID string) (*Session, Binding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bindings[connectionID]
	if !ok {
		return nil, Binding{}, ErrNotJoined
	}
	ms, ok := m.sessions[b.SessionID]
	if !ok {
		return nil, Binding{}, ErrSessionNotFound
	}
	return ms.session, b, nil
}

// --- Маршрутизация команд ---

func (m *Manager) HandleAction(connectionID string, action domain.Action) error {
	s, b, err := m.resolve(connectionID)
	if err != nil {
		return err
	}
	return s.HandleAction(b.EntityID, action)
}

func (m *Manager) InviteToTeam(connectionID, targetEntityID string) error {
	s, b, err := m.resolve(connectionID)
	if err != nil {
		return err
	}
	return s.InviteToTeam(b.UserID, targetEntityID)
}

func (m *Manager) RespondToTeamInvite(connectionID string, accepted bool) error {
	s, b, err := m.resolve(connectionID)
	if err != nil {
		return err
	}
	return s.RespondToTeamInvite(b.UserID, accepted)
}

func (m *Manager) LeaveTeam(connectionID string) error {
	s, b, err := m.resolve(connectionID)
	if err != nil {
		return err
	}
	return s.LeaveTeam(b.UserID)
}

func (m *Manager) ProposePeace(connectionID, combatID string) error {
	s, b, err := m.resolve(connectionID)
	if err != nil {
		return err
	}
	return s.HandlePeaceProposal(b.UserID, combatID)
}

func (m *Manager) RespondPeace(connectionID, combatID string, accepted bool) error {
	s, b, err := m.resolve(connectionID)
	if err != nil {
		return err
	}
	return s.HandlePeaceResponse(b.UserID, combatID, accepted)
}

// Snapshot - снимок сессии, к которой привязано соединение
func (m *Manager) Snapshot(connectionID string) (SessionSnapshot, error) {
	s, _, err := m.resolve(connectionID)
	if err != nil {
		return SessionSnapshot{}, err
	}
	return s.Snapshot()
}

// Disconnect отвязывает соединение. Сессия без игроков останавливается и удаляется.
func (m *Manager) Disconnect(connectionID string) {
	m.mu.Lock()
	b, ok := m.bindings[connectionID]
	delete(m.bindings, connectionID)
	ms := m.sessions[b.SessionID]
	m.mu.Unlock()
	if !ok || ms == nil {
		return
	}

	if _, err := ms.session.HandleDisconnect(connectionID); err != nil {
		m.log.WithFields(logrus.Fields{
			"session_id":    b.SessionID,
			"connection_id": connectionID,
		}).WithError(err).Warn("Disconnect failed")
		return
	}
	m.dropIfEmpty(b.SessionID)
}

// dropIfEmpty останавливает и удаляет сессию без игроков
func (m *Manager) dropIfEmpty(id string) {
	m.mu.RLock()
	ms, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return
	}

	players, err := ms.session.PlayerCount()
	if err != nil || players > 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.sessions[id]; ok && cur == ms {
		delete(m.sessions, id)
		ms.cancel()
		m.log.WithField("session_id", id).Info("Session is empty, removed")
	}
}

// Shutdown останавливает все сессии
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ms := range m.sessions {
		ms.cancel()
		delete(m.sessions, id)
	}
	m.bindings = make(map[string]Binding)
}
