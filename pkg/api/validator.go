package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p AttackPayload) Validate() error {
	if p.TargetID == "" {
		return errors.New("targetId is required")
	}
	return nil
}

func (p CastPayload) Validate() error {
	if strings.TrimSpace(p.AbilityID) == "" {
		return errors.New("abilityId is required")
	}
	return nil
}

func (p InvitePayload) Validate() error {
	if p.TargetEntityID == "" {
		return errors.New("targetEntityId is required")
	}
	return nil
}

func (p PeacePayload) Validate() error {
	if p.CombatID == "" {
		return errors.New("combatId is required")
	}
	return nil
}

// Decode распаковывает payload в T и, если T реализует Validator, проверяет его.
// Пустой payload даёт нулевое значение T (оно тоже проходит проверку).
func Decode[T any](raw json.RawMessage) (T, error) {
	var payload T

	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return payload, fmt.Errorf("invalid payload format: %w", err)
		}
	}

	if v, ok := any(payload).(Validator); ok {
		if err := v.Validate(); err != nil {
			return payload, fmt.Errorf("validation failed: %w", err)
		}
	}
	return payload, nil
}
