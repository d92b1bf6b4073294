package dungeon

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"

	"github.com/sirupsen/logrus"
)

//go:embed content/dungeon_level_1.txt
var defaultMap []byte

// monsterBySymbol - какой монстр появляется на символе карты
var monsterBySymbol = map[rune]string{
	'M': "goblin_warrior",
	'B': "lich_king_boss",
}

// IsMonsterSymbol - является ли символ точкой появления монстра
func IsMonsterSymbol(symbol rune) bool {
	_, ok := monsterBySymbol[symbol]
	return ok
}

// World строит мир новой сессии: карту из текста и монстров на её точках появления.
// Каждый вызов NewWorld разбирает карту заново, сессии не делят состояние клеток.
type World struct {
	mapData []byte
	factory *Factory
	log     *logrus.Entry
}

// NewWorld создаёт источник миров. Пустой mapPath - встроенная карта.
func NewWorld(mapPath string, factory *Factory) (*World, error) {
	data := defaultMap
	if mapPath != "" {
		raw, err := os.ReadFile(mapPath)
		if err != nil {
			return nil, fmt.Errorf("read map %s: %w", mapPath, err)
		}
		data = raw
	}
	// Ранняя проверка: битая карта должна остановить сервер при старте
	if _, err := LoadMap(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return &World{
		mapData: data,
		factory: factory,
		log:     logger.Component("monster_spawner"),
	}, nil
}

// NewWorld реализует engine.WorldSource
func (w *World) NewWorld() (*domain.Grid, []*domain.Entity, error) {
	g, err := LoadMap(bytes.NewReader(w.mapData))
	if err != nil {
		return nil, nil, err
	}
	return g, w.SpawnMonsters(g), nil
}

// SpawnMonsters создаёт монстров на точках появления. Неизвестные шаблоны пропускаются.
func (w *World) SpawnMonsters(g *domain.Grid) []*domain.Entity {
	points := g.MonsterSpawns()
	if len(points) == 0 {
		w.log.Warn("No monster spawn points found on the map. No monsters will be spawned.")
		return nil
	}

	monsters := make([]*domain.Entity, 0, len(points))
	for _, sp := range points {
		templateID := monsterBySymbol[sp.Symbol]
		m, err := w.factory.CreateMonster(templateID, sp.Pos)
		if err != nil {
			w.log.WithError(err).WithField("pos", sp.Pos.String()).Warn("Could not spawn monster")
			continue
		}
		monsters = append(monsters, m)
		w.log.WithFields(logrus.Fields{
			"name":     m.Name,
			"template": templateID,
			"pos":      sp.Pos.String(),
		}).Debug("Spawned monster")
	}
	return monsters
}
