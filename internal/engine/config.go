package engine

import (
	"fmt"
	"time"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/internal/systems"

	"github.com/caarlos0/env/v11"
)

// Rules - числовые правила сессии
type Rules struct {
	APPerTurn      int           `env:"CD_AP_PER_TURN" envDefault:"4"`
	MoveCost       int           `env:"CD_MOVE_COST" envDefault:"1"`
	AttackCost     int           `env:"CD_ATTACK_COST" envDefault:"2"`
	JoinRadius     int           `env:"CD_COMBAT_JOIN_RADIUS" envDefault:"3"`
	ScanRadius     int           `env:"CD_PROXIMITY_RADIUS" envDefault:"10"`
	SecondsPerTurn time.Duration `env:"CD_COOLDOWN_SECONDS_PER_TURN" envDefault:"10s"`
	AITickDelay    time.Duration `env:"CD_AI_TICK_DELAY" envDefault:"500ms"`
	AIMaxActions   int           `env:"CD_AI_MAX_ACTIONS" envDefault:"16"`
	CleanupDelay   time.Duration `env:"CD_COMBAT_CLEANUP_DELAY" envDefault:"1s"`
	PlayerStartAP  int           `env:"CD_PLAYER_START_AP" envDefault:"4"`
}

// DefaultRules - те же значения, что и envDefault
func DefaultRules() Rules {
	return Rules{
		APPerTurn:      domain.DefaultAPPerTurn,
		MoveCost:       domain.DefaultMoveCost,
		AttackCost:     domain.DefaultAttackCost,
		JoinRadius:     domain.DefaultJoinRadius,
		ScanRadius:     domain.DefaultScanRadius,
		SecondsPerTurn: domain.DefaultSecondsPerTurn,
		AITickDelay:    500 * time.Millisecond,
		AIMaxActions:   16,
		CleanupDelay:   time.Second,
		PlayerStartAP:  domain.DefaultAPPerTurn,
	}
}

func (r Rules) aiCosts() systems.AICosts {
	return systems.AICosts{MoveCost: r.MoveCost, AttackCost: r.AttackCost}
}

// Config хранит параметры запуска сервера
type Config struct {
	Port         string `env:"CD_PORT" envDefault:"8080"`
	MapPath      string `env:"CD_MAP_PATH"`     // пусто - встроенная карта
	ContentPath  string `env:"CD_CONTENT_PATH"` // пусто - встроенный каталог
	DefaultClass string `env:"CD_DEFAULT_CLASS" envDefault:"warrior"`

	Rules Rules
}

// LoadConfig читает конфиг из переменных окружения
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
