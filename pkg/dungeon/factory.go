package dungeon

import (
	"fmt"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
)

// Factory создаёт сущности по шаблонам каталога
type Factory struct {
	Catalog *Catalog
	// PlayerStartAP - AP нового игрока (монстры появляются с полным запасом)
	PlayerStartAP int
}

func NewFactory(c *Catalog, playerStartAP int) *Factory {
	return &Factory{Catalog: c, PlayerStartAP: playerStartAP}
}

func applyStats(e *domain.Entity, s StatsTemplate) {
	e.HP = s.MaxHP
	e.MaxHP = s.MaxHP
	e.Attack = s.Attack
	e.Defense = s.Defense
	e.Initiative = s.Initiative
	e.MaxAP = s.MaxAP
	e.AttackRange = s.AttackRange
	e.AggroRadius = s.AggroRadius
}

// CreatePlayer собирает героя класса classID
func (f *Factory) CreatePlayer(classID string, player domain.PlayerComponent, pos domain.Hex) (*domain.Entity, error) {
	class, ok := f.Catalog.Class(classID)
	if !ok {
		return nil, fmt.Errorf("unknown player class %q", classID)
	}

	p := &domain.Entity{
		ID:    domain.NewEntityID(),
		Name:  playerName(class, player.UserID),
		Kind:  domain.KindPlayer,
		Pos:   pos,
		State: domain.StateExploring,
	}
	applyStats(p, class.Stats)
	p.AP = min(f.PlayerStartAP, p.MaxAP)
	p.Abilities = f.Catalog.instances(class.Abilities)

	player.ClassID = classID
	p.Player = &player
	return p, nil
}

// CreateMonster собирает монстра по шаблону templateID
func (f *Factory) CreateMonster(templateID string, pos domain.Hex) (*domain.Entity, error) {
	tpl, ok := f.Catalog.Monster(templateID)
	if !ok {
		return nil, fmt.Errorf("unknown monster template %q", templateID)
	}

	m := &domain.Entity{
		ID:    domain.NewEntityID(),
		Name:  tpl.Name,
		Kind:  domain.KindMonster,
		Pos:   pos,
		State: domain.StateExploring,
	}
	applyStats(m, tpl.Stats)
	m.AP = m.MaxAP
	m.Abilities = f.Catalog.instances(tpl.Abilities)
	m.Monster = &domain.MonsterComponent{TemplateID: tpl.ID, XP: tpl.XP}
	return m, nil
}

// playerName - имя класса и первые 4 символа ID пользователя
func playerName(class *ClassTemplate, userID string) string {
	short := userID
	if r := []rune(short); len(r) > 4 {
		short = string(r[:4])
	}
	if short == "" {
		return class.Name
	}
	return class.Name + " " + short
}
