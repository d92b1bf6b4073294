package domain

import (
	"time"

	"github.com/google/uuid"
)

// --- КОМПОНЕНТЫ ---

// PlayerComponent - данные подключения игрока
type PlayerComponent struct {
	UserID       string `json:"userId"`
	ConnectionID string `json:"-"`
	ClassID      string `json:"classId"`
}

// MonsterComponent - данные шаблона монстра
type MonsterComponent struct {
	TemplateID string `json:"templateId"`
	XP         int    `json:"xp"`
}

// --- СУЩНОСТЬ ---

// NewEntityID создает уникальный ID сущности
func NewEntityID() string {
	return uuid.NewString()
}

// Entity - общее состояние игрока и монстра.
// Kind определяет, какой из компонентов (Player/Monster) заполнен.
type Entity struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Kind EntityKind `json:"kind"`
	Pos  Hex        `json:"pos"`

	HP          int `json:"hp"`
	MaxHP       int `json:"maxHp"`
	Attack      int `json:"attack"`
	Defense     int `json:"defense"` // броня, расходуется при поглощении урона
	AttackRange int `json:"attackRange"`
	AP          int `json:"ap"`
	MaxAP       int `json:"maxAp"`
	Initiative  int `json:"initiative"`
	AggroRadius int `json:"aggroRadius"`

	TeamID string      `json:"teamId,omitempty"` // "" - без команды
	State  EntityState `json:"state"`
	IsDead bool        `json:"isDead"`

	Abilities []*AbilityInstance `json:"-"`

	// Компоненты (Если nil - значит свойство отсутствует)
	Player  *PlayerComponent  `json:"player,omitempty"`
	Monster *MonsterComponent `json:"monster,omitempty"`
}

func (e *Entity) IsPlayer() bool {
	return e.Kind == KindPlayer
}

func (e *Entity) IsMonster() bool {
	return e.Kind == KindMonster
}

// IsAIControlled - ходом монстров управляет ИИ, ходом игроков - клиент
func (e *Entity) IsAIControlled() bool {
	return e.Kind == KindMonster
}

func (e *Entity) IsAlive() bool {
	return !e.IsDead
}

func (e *Entity) InCombat() bool {
	return e.State == StateCombat
}

// UserID возвращает ID пользователя ("" для монстров)
func (e *Entity) UserID() string {
	if e.Player == nil {
		return ""
	}
	return e.Player.UserID
}

// Ability ищет способность по ID шаблона
func (e *Entity) Ability(id string) *AbilityInstance {
	for _, a := range e.Abilities {
		if a.ID() == id {
			return a
		}
	}
	return nil
}

// ConvertCooldowns переводит все кулдауны в режим состояния to
func (e *Entity) ConvertCooldowns(to EntityState, now time.Time, perTurn time.Duration) {
	for _, a := range e.Abilities {
		a.Cooldown = ConvertCooldown(a.Cooldown, to, now, perTurn)
	}
}

// ReduceCooldowns уменьшает ходовые кулдауны на 1 (в начале хода владельца)
func (e *Entity) ReduceCooldowns() {
	for _, a := range e.Abilities {
		if t, ok := a.Cooldown.(TurnsRemaining); ok {
			if t <= 1 {
				a.Cooldown = nil
			} else {
				a.Cooldown = t - 1
			}
		}
	}
}

func (e *Entity) CooldownViews() []CooldownView {
	out := make([]CooldownView, 0, len(e.Abilities))
	for _, a := range e.Abilities {
		out = append(out, a.View())
	}
	return out
}

// Clone - глубокая копия для снапшотов (способности копируются поверхностно по шаблону)
func (e *Entity) Clone() *Entity {
	c := *e
	c.Abilities = make([]*AbilityInstance, len(e.Abilities))
	for i, a := range e.Abilities {
		cp := *a
		c.Abilities[i] = &cp
	}
	if e.Player != nil {
		p := *e.Player
		c.Player = &p
	}
	if e.Monster != nil {
		m := *e.Monster
		c.Monster = &m
	}
	return &c
}
