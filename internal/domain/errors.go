package domain

import (
	"errors"
	"fmt"
)

// ErrorCode - машиночитаемый код отказа, уходит клиенту в событии error
type ErrorCode string

const (
	CodePlayerIsDead        ErrorCode = "PLAYER_IS_DEAD"
	CodeNotYourTurn         ErrorCode = "NOT_YOUR_TURN"
	CodeTileNotPassable     ErrorCode = "TILE_NOT_PASSABLE"
	CodeTileOccupied        ErrorCode = "TILE_OCCUPIED"
	CodeMoveInvalidDistance ErrorCode = "MOVE_INVALID_DISTANCE"
	CodeNotEnoughAP         ErrorCode = "NOT_ENOUGH_AP"
	CodeTargetOutOfRange    ErrorCode = "TARGET_OUT_OF_RANGE"
	CodeTargetIsDead        ErrorCode = "TARGET_IS_DEAD"
	CodeNoPathFound         ErrorCode = "NO_PATH_FOUND"
	CodeInviteInvalid       ErrorCode = "INVITE_INVALID"
	CodeNoInviteFound       ErrorCode = "NO_INVITE_FOUND"
	CodeOnCooldown          ErrorCode = "ON_COOLDOWN"
	CodeOutOfRange          ErrorCode = "OUT_OF_RANGE"
	CodeInvalidTarget       ErrorCode = "INVALID_TARGET"
	CodeCasterIsDead        ErrorCode = "CASTER_IS_DEAD"
	CodeUnknownAbility      ErrorCode = "UNKNOWN_ABILITY"
	CodeNotInCombat         ErrorCode = "NOT_IN_COMBAT"
	CodeCombatNotFound      ErrorCode = "COMBAT_NOT_FOUND"
	CodePeaceNotAllowed     ErrorCode = "PEACE_NOT_ALLOWED"
	CodeUnknownAction       ErrorCode = "UNKNOWN_ACTION"
)

// ActionError - отказ в действии с кодом. Доставляется только инициатору.
type ActionError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewActionError(code ErrorCode, format string, args ...any) *ActionError {
	return &ActionError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *ActionError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Is сравнивает по коду, чтобы работал errors.Is(err, &ActionError{Code: ...})
func (e *ActionError) Is(target error) bool {
	var other *ActionError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// IsCode - true, если err является ActionError с указанным кодом
func IsCode(err error, code ErrorCode) bool {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}
