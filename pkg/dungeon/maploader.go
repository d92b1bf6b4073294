package dungeon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"
)

var ErrEmptyMap = errors.New("map has no tiles")

// Символы текстовой карты
const (
	symbolSkip        = '-'
	symbolWall        = 'W'
	symbolDoor        = 'D'
	symbolFloor       = '.'
	symbolWater       = '~'
	symbolPit         = '_'
	symbolPlayerSpawn = 'P'
)

var tileBySymbol = map[rune]domain.TileType{
	symbolWall:  domain.TileWall,
	symbolDoor:  domain.TileDoor,
	symbolFloor: domain.TileFloor,
	symbolWater: domain.TileWater,
	symbolPit:   domain.TilePit,
}

// LoadMap читает текстовую карту.
// Строка файла - ряд r, столбец переводится в осевую q = col - row/2.
// Строки, начинающиеся с '#', и пустые строки пропускаются, но номер ряда всё равно растёт.
func LoadMap(r io.Reader) (*domain.Grid, error) {
	g := domain.NewGrid()
	scanner := bufio.NewScanner(r)

	unknown := 0
	for row := 0; scanner.Scan(); row++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(line)

		for col, symbol := range []rune(line) {
			if symbol == symbolSkip {
				continue
			}
			h := domain.NewHex(col-row/2, row)

			if t, ok := tileBySymbol[symbol]; ok {
				g.SetTile(h, t)
				continue
			}

			// Точки появления стоят на полу
			g.SetTile(h, domain.TileFloor)
			switch {
			case symbol == symbolPlayerSpawn:
				g.AddPlayerSpawn(h)
			case IsMonsterSymbol(symbol):
				g.AddMonsterSpawn(h, symbol)
			default:
				unknown++
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}

	if unknown > 0 {
		logger.Component("map_loader").Warnf("Map has %d unknown symbols, treated as floor", unknown)
	}
	if g.Len() == 0 {
		return nil, ErrEmptyMap
	}
	if len(g.PlayerSpawns()) == 0 {
		return nil, domain.ErrNoSpawnPoints
	}
	return g, nil
}

// LoadMapFile - LoadMap для файла на диске
func LoadMapFile(path string) (*domain.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map %s: %w", path, err)
	}
	defer f.Close()

	g, err := LoadMap(f)
	if err != nil {
		return nil, fmt.Errorf("load map %s: %w", path, err)
	}
	return g, nil
}
