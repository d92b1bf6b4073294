package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerMessage это корневой объект, который сервер отправляет клиенту.
// Форма совпадает с событием движка: имя события и его данные.
type ServerMessage struct {
	// Type имя события (entity_moved, combat_started, ...) или служебного сообщения.
	Type string `json:"actionType"`

	// Payload данные события. Структура зависит от Type.
	Payload any `json:"payload"`
}

// Служебные сообщения, которых нет среди событий движка
const (
	// MsgJoined подтверждение входа: какой сущностью управляет клиент
	MsgJoined = "joined"
	// MsgSnapshot полный снимок сессии (после входа и по запросу SNAPSHOT)
	MsgSnapshot = "session_snapshot"
	// MsgError ошибка транспорта или протокола (коды движка приходят событием error)
	MsgError = "error"
)

// JoinedPayload ответ на JOIN.
type JoinedPayload struct {
	SessionID string `json:"sessionId"`
	EntityID  string `json:"entityId"`
	UserID    string `json:"userId"`
}

// ErrorPayload ошибка, не являющаяся отказом игрового правила.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Коды ошибок протокола
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnknownAction = "UNKNOWN_ACTION"
	CodeNotJoined     = "NOT_JOINED"
	CodeInternal      = "INTERNAL_ERROR"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token ID пользователя.
	// Обязателен только для первого сообщения "JOIN", если UserID не передан в payload.
	Token string `json:"token,omitempty"`

	// Action название действия, которое нужно выполнить.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// Имена команд клиента
const (
	ActionJoin              = "JOIN"
	ActionMove              = "MOVE"
	ActionAttack            = "ATTACK"
	ActionCastAbility       = "CAST_ABILITY"
	ActionEndTurn           = "END_TURN"
	ActionInviteToTeam      = "INVITE_TO_TEAM"
	ActionRespondTeamInvite = "RESPOND_TEAM_INVITE"
	ActionLeaveTeam         = "LEAVE_TEAM"
	ActionProposePeace      = "PROPOSE_PEACE"
	ActionRespondPeace      = "RESPOND_PEACE"
	ActionSnapshot          = "SNAPSHOT"
)

// --- Payloads ---

// JoinPayload первое сообщение соединения (handshake).
type JoinPayload struct {
	SessionID string `json:"sessionId,omitempty"` // пусто - сессия по умолчанию
	UserID    string `json:"userId,omitempty"`    // пусто - берётся Token
	ClassID   string `json:"classId,omitempty"`   // пусто - класс по умолчанию
}

// MovePayload шаг на соседний гекс.
type MovePayload struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// AttackPayload используется для атаки другой сущности.
type AttackPayload struct {
	TargetID string `json:"targetId"`
}

// CastPayload применение способности в гекс (Q, R).
type CastPayload struct {
	AbilityID string `json:"abilityId"`
	Q         int    `json:"q"`
	R         int    `json:"r"`
}

// InvitePayload приглашение в команду.
type InvitePayload struct {
	TargetEntityID string `json:"targetEntityId"`
}

// RespondInvitePayload ответ на приглашение.
type RespondInvitePayload struct {
	Accepted bool `json:"accepted"`
}

// PeacePayload предложение мира (Accepted игнорируется) или голос по нему.
type PeacePayload struct {
	CombatID string `json:"combatId"`
	Accepted bool   `json:"accepted"`
}
