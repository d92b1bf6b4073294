package domain

import "strings"

// ActionType - Внутренний числовой идентификатор действия
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionMove
	ActionAttack
	ActionCastAbility
	ActionEndTurn
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"MOVE":         ActionMove,
	"ATTACK":       ActionAttack,
	"CAST_ABILITY": ActionCastAbility,
	"END_TURN":     ActionEndTurn,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionMove:        "MOVE",
	ActionAttack:      "ATTACK",
	ActionCastAbility: "CAST_ABILITY",
	ActionEndTurn:     "END_TURN",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// Action - действие сущности в сессии. Заполнены только поля, нужные типу.
type Action struct {
	Type      ActionType
	TargetHex Hex    // MOVE, CAST_ABILITY
	TargetID  string // ATTACK
	AbilityID string // CAST_ABILITY
}

func MoveAction(to Hex) Action {
	return Action{Type: ActionMove, TargetHex: to}
}

func AttackAction(targetID string) Action {
	return Action{Type: ActionAttack, TargetID: targetID}
}

func CastAction(abilityID string, at Hex) Action {
	return Action{Type: ActionCastAbility, AbilityID: abilityID, TargetHex: at}
}

func EndTurnAction() Action {
	return Action{Type: ActionEndTurn}
}
