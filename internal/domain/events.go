package domain

// EventType - имя события на проводе
type EventType string

const (
	EventMoved              EventType = "entity_moved"
	EventAttacked           EventType = "entity_attack"
	EventStatsUpdated       EventType = "entity_stats_updated"
	EventTurnStarted        EventType = "combat_next_turn"
	EventTurnEnded          EventType = "entity_turn_ended"
	EventCombatStarted      EventType = "combat_started"
	EventCombatEnded        EventType = "combat_ended"
	EventParticipantsJoined EventType = "combat_participants_joined"
	EventEntityDied         EventType = "entity_died"
	EventAbilityCasted      EventType = "ability_casted"
	EventCasterStateUpdated EventType = "caster_state_updated"
	EventTeamUpdated        EventType = "team_updated"
	EventTeamInvite         EventType = "team_invite"
	EventError              EventType = "error"
	EventPeaceProposal      EventType = "peace_proposal"
	EventPeaceResult        EventType = "peace_proposal_result"
	EventPlayerJoined       EventType = "player_joined"
	EventPlayerLeft         EventType = "player_left"
)

// Event - уведомление об изменении состояния
type Event struct {
	Type    EventType `json:"actionType"`
	Payload any       `json:"payload"`
}

func NewEvent(t EventType, payload any) Event {
	return Event{Type: t, Payload: payload}
}

// EntityView - краткий снимок сущности для клиента
type EntityView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Pos         Hex            `json:"pos"`
	HP          int            `json:"hp"`
	MaxHP       int            `json:"maxHp"`
	Defense     int            `json:"defense"`
	AP          int            `json:"ap"`
	MaxAP       int            `json:"maxAp"`
	Initiative  int            `json:"initiative"`
	AttackRange int            `json:"attackRange"`
	TeamID      string         `json:"teamId,omitempty"`
	State       string         `json:"state"`
	IsDead      bool           `json:"isDead"`
	UserID      string         `json:"userId,omitempty"`
	TemplateID  string         `json:"templateId,omitempty"`
	Cooldowns   []CooldownView `json:"cooldowns,omitempty"`
}

func (e *Entity) View() EntityView {
	v := EntityView{
		ID:          e.ID,
		Name:        e.Name,
		Kind:        e.Kind.String(),
		Pos:         e.Pos,
		HP:          e.HP,
		MaxHP:       e.MaxHP,
		Defense:     e.Defense,
		AP:          e.AP,
		MaxAP:       e.MaxAP,
		Initiative:  e.Initiative,
		AttackRange: e.AttackRange,
		TeamID:      e.TeamID,
		State:       e.State.String(),
		IsDead:      e.IsDead,
		Cooldowns:   e.CooldownViews(),
	}
	if e.Player != nil {
		v.UserID = e.Player.UserID
	}
	if e.Monster != nil {
		v.TemplateID = e.Monster.TemplateID
	}
	return v
}

// --- Полезные нагрузки событий ---

type MovedPayload struct {
	EntityID string `json:"entityId"`
	Pos      Hex    `json:"position"`
	AP       int    `json:"currentAP"`
	Path     []Hex  `json:"path"`
}

type AttackedPayload struct {
	AttackerID string       `json:"attackerId"`
	TargetID   string       `json:"targetId"`
	Damage     DamageResult `json:"damage"`
}

type StatsUpdatedPayload struct {
	EntityID string `json:"entityId"`
	HP       int    `json:"currentHp"`
	MaxHP    int    `json:"maxHp"`
	Defense  int    `json:"defense"`
	AP       int    `json:"currentAP"`
	MaxAP    int    `json:"maxAP"`
	IsDead   bool   `json:"dead"`
}

func StatsOf(e *Entity) StatsUpdatedPayload {
	return StatsUpdatedPayload{
		EntityID: e.ID,
		HP:       e.HP,
		MaxHP:    e.MaxHP,
		Defense:  e.Defense,
		AP:       e.AP,
		MaxAP:    e.MaxAP,
		IsDead:   e.IsDead,
	}
}

type TurnStartedPayload struct {
	CombatID  string         `json:"combatId"`
	EntityID  string         `json:"currentTurnEntityId"`
	AP        int            `json:"currentAP"`
	Cooldowns []CooldownView `json:"abilityCooldowns"`
}

type TurnEndedPayload struct {
	CombatID string `json:"combatId"`
	EntityID string `json:"entityId"`
}

type CombatStartedPayload struct {
	CombatID   string              `json:"combatId"`
	Teams      map[string][]string `json:"teams"`
	TurnOrder  []string            `json:"turnOrder"`
	Combatants []EntityView        `json:"combatants"`
}

type CombatEndedPayload struct {
	CombatID      string        `json:"combatId"`
	Outcome       CombatOutcome `json:"outcome"`
	WinningTeamID string        `json:"winningTeamId,omitempty"`
}

type ParticipantsJoinedPayload struct {
	CombatID  string       `json:"combatId"`
	NewIDs    []string     `json:"newParticipantIds"`
	TurnOrder []string     `json:"turnOrder"`
	Joined    []EntityView `json:"newParticipants"`
}

type EntityDiedPayload struct {
	EntityID string `json:"entityId"`
	CombatID string `json:"combatId,omitempty"`
}

// EffectResult - результат одного эффекта на одной цели
type EffectResult struct {
	TargetID string        `json:"targetId"`
	Effect   string        `json:"effectType"`
	Damage   *DamageResult `json:"damage,omitempty"`
	Healed   int           `json:"healed,omitempty"`
	HP       int           `json:"currentHp"`
}

type AbilityCastedPayload struct {
	CasterID  string         `json:"casterId"`
	AbilityID string         `json:"abilityId"`
	TargetHex Hex            `json:"targetHex"`
	Results   []EffectResult `json:"results"`
}

type CasterStatePayload struct {
	EntityID  string         `json:"casterId"`
	AP        int            `json:"currentAP"`
	State     string         `json:"state"`
	Cooldowns []CooldownView `json:"abilityCooldowns"`
}

func CasterStateOf(e *Entity) CasterStatePayload {
	return CasterStatePayload{
		EntityID:  e.ID,
		AP:        e.AP,
		State:     e.State.String(),
		Cooldowns: e.CooldownViews(),
	}
}

type TeamUpdatedPayload struct {
	TeamID    string   `json:"teamId"`
	MemberIDs []string `json:"memberIds"`
}

type TeamInvitePayload struct {
	TeamID      string `json:"teamId"`
	InviterID   string `json:"inviterId"`
	InviterName string `json:"inviterName"`
}

type PeaceProposalPayload struct {
	CombatID     string `json:"combatId"`
	ProposerID   string `json:"proposerId"`
	ProposerName string `json:"proposerName"`
}

type PeaceResultPayload struct {
	CombatID     string `json:"combatId"`
	Accepted     bool   `json:"accepted"`
	RejectorName string `json:"rejectorName,omitempty"`
}

type PlayerJoinedPayload struct {
	Entity EntityView `json:"entity"`
}

type PlayerLeftPayload struct {
	EntityID string `json:"entityId"`
	UserID   string `json:"userId"`
}
