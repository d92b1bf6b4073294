package dungeon

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed content/templates.yaml
var defaultCatalogYAML []byte

// StatsTemplate - базовые характеристики класса или монстра
type StatsTemplate struct {
	MaxHP       int `yaml:"maxHp" json:"maxHp"`
	Attack      int `yaml:"attack" json:"attack"`
	Defense     int `yaml:"defense" json:"defense"`
	Initiative  int `yaml:"initiative" json:"initiative"`
	MaxAP       int `yaml:"maxAp" json:"maxAp"`
	AttackRange int `yaml:"attackRange" json:"attackRange"`
	AggroRadius int `yaml:"aggroRadius" json:"aggroRadius"`
}

// ClassTemplate - класс игрока
type ClassTemplate struct {
	ID          string        `yaml:"id" json:"id"`
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Abilities   []string      `yaml:"abilities" json:"abilities"`
	Stats       StatsTemplate `yaml:"stats" json:"stats"`
}

// MonsterTemplate - вид монстра
type MonsterTemplate struct {
	ID        string        `yaml:"id" json:"id"`
	Name      string        `yaml:"name" json:"name"`
	XP        int           `yaml:"xp" json:"xp"`
	Abilities []string      `yaml:"abilities" json:"abilities"`
	Stats     StatsTemplate `yaml:"stats" json:"stats"`
}

// Catalog - статический контент: классы, монстры, способности
type Catalog struct {
	classes   map[string]*ClassTemplate
	monsters  map[string]*MonsterTemplate
	abilities map[string]*domain.AbilityTemplate
}

type catalogFile struct {
	Classes   []*ClassTemplate          `yaml:"classes"`
	Monsters  []*MonsterTemplate        `yaml:"monsters"`
	Abilities []*domain.AbilityTemplate `yaml:"abilities"`
}

// LoadCatalog разбирает YAML каталога и проверяет ссылки на способности
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var raw catalogFile
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		classes:   make(map[string]*ClassTemplate),
		monsters:  make(map[string]*MonsterTemplate),
		abilities: make(map[string]*domain.AbilityTemplate),
	}
	for _, a := range raw.Abilities {
		if a.ID == "" {
			return nil, errors.New("ability without id")
		}
		if _, dup := c.abilities[a.ID]; dup {
			return nil, fmt.Errorf("duplicate ability %q", a.ID)
		}
		c.abilities[a.ID] = a
	}
	for _, cl := range raw.Classes {
		if err := c.checkAbilities("class "+cl.ID, cl.Abilities); err != nil {
			return nil, err
		}
		c.classes[cl.ID] = cl
	}
	for _, m := range raw.Monsters {
		if err := c.checkAbilities("monster "+m.ID, m.Abilities); err != nil {
			return nil, err
		}
		c.monsters[m.ID] = m
	}
	return c, nil
}

func (c *Catalog) checkAbilities(owner string, ids []string) error {
	for _, id := range ids {
		if _, ok := c.abilities[id]; !ok {
			return fmt.Errorf("%s references unknown ability %q", owner, id)
		}
	}
	return nil
}

// LoadCatalogFile читает каталог с диска
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// DefaultCatalog - встроенный каталог
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalogYAML))
}

func (c *Catalog) Class(id string) (*ClassTemplate, bool) {
	t, ok := c.classes[id]
	return t, ok
}

func (c *Catalog) Monster(id string) (*MonsterTemplate, bool) {
	t, ok := c.monsters[id]
	return t, ok
}

func (c *Catalog) Ability(id string) (*domain.AbilityTemplate, bool) {
	t, ok := c.abilities[id]
	return t, ok
}

// ClassIDs - ID всех классов по алфавиту
func (c *Catalog) ClassIDs() []string {
	ids := make([]string, 0, len(c.classes))
	for id := range c.classes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// instances создаёт экземпляры способностей (кулдауны у каждой сущности свои)
func (c *Catalog) instances(ids []string) []*domain.AbilityInstance {
	out := make([]*domain.AbilityInstance, 0, len(ids))
	for _, id := range ids {
		if tpl, ok := c.abilities[id]; ok {
			out = append(out, domain.NewAbilityInstance(tpl))
		}
	}
	return out
}
