package systems

import (
	"testing"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
)

func TestApplyAttack(t *testing.T) {
	attacker := &domain.Entity{ID: "hero", Name: "Hero", Attack: 5, AttackRange: 1}
	target := &domain.Entity{ID: "ork", Name: "Ork", HP: 20, MaxHP: 20, Defense: 2, Pos: domain.NewHex(1, 0)}

	if aerr := ValidateAttack(attacker, target); aerr != nil {
		t.Fatalf("Expected valid attack, got %v", aerr)
	}

	res := ApplyAttack(attacker, target)
	if target.HP != 17 || res.Absorbed != 2 {
		t.Errorf("Expected target HP 17 after 2 absorbed, got HP %d absorbed %d", target.HP, res.Absorbed)
	}

	// Kill shot
	attacker.Attack = 100
	res = ApplyAttack(attacker, target)
	if !res.Killed || !target.IsDead {
		t.Error("Expected target to be dead")
	}

	if aerr := ValidateAttack(attacker, target); aerr == nil || aerr.Code != domain.CodeTargetIsDead {
		t.Errorf("Expected TARGET_IS_DEAD, got %v", aerr)
	}
	if aerr := ValidateAttack(attacker, attacker); aerr == nil || aerr.Code != domain.CodeInvalidTarget {
		t.Errorf("Expected INVALID_TARGET, got %v", aerr)
	}
	far := &domain.Entity{ID: "far", HP: 5, Pos: domain.NewHex(3, 0)}
	if aerr := ValidateAttack(attacker, far); aerr == nil || aerr.Code != domain.CodeTargetOutOfRange {
		t.Errorf("Expected TARGET_OUT_OF_RANGE, got %v", aerr)
	}
}
