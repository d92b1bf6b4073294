package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/internal/engine"
	"github.com/dota2-beta/Dungeon-Game/internal/systems"
	"github.com/dota2-beta/Dungeon-Game/pkg/api"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Bot представляет собой "Игрока-компьютера" (Headless Agent).
// Это ВНЕШНИЙ клиент: подключается по WebSocket так же, как обычный игрок,
// и ходит тем же ИИ, что и монстры на сервере.
//
// Жизненный цикл:
//  1. Run -> JOIN, затем чтение сообщений сервера.
//  2. combat_next_turn со своим ID -> запрос SNAPSHOT.
//  3. Снимок, где текущий ход наш -> локальная карта, systems.ComputeNPCAction, команда.
//  4. После каждой команды снова запрос снимка, пока ход не перейдет другому.
//
// Приглашения в команду и предложения мира бот принимает всегда.
type Bot struct {
	UserID    string
	SessionID string
	ClassID   string

	conn       *websocket.Conn
	costs      systems.AICosts
	maxActions int

	entityID string
	// awaiting - запрос снимка уже отправлен, ответа ещё нет
	awaiting bool
	// actions - команд за текущий ход
	actions int

	log *logrus.Entry
}

func NewBot(conn *websocket.Conn, userID, sessionID, classID string, costs systems.AICosts, maxActions int) *Bot {
	return &Bot{
		UserID:     userID,
		SessionID:  sessionID,
		ClassID:    classID,
		conn:       conn,
		costs:      costs,
		maxActions: maxActions,
		log:        logger.Log.WithFields(logrus.Fields{"component": "bot", "user_id": userID}),
	}
}

// incoming - сообщение сервера с отложенным разбором payload
type incoming struct {
	Type    string          `json:"actionType"`
	Payload json.RawMessage `json:"payload"`
}

// Run запускает цикл жизни бота. Возвращает nil после отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		b.conn.Close()
	}()

	if err := b.send(api.ActionJoin, api.JoinPayload{
		SessionID: b.SessionID,
		UserID:    b.UserID,
		ClassID:   b.ClassID,
	}); err != nil {
		return fmt.Errorf("join: %w", err)
	}
	// Сервер сам пришлет снимок после joined
	b.awaiting = true

	for {
		var msg incoming
		if err := b.conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if err := b.handle(msg); err != nil {
			return err
		}
	}
}

func (b *Bot) handle(msg incoming) error {
	switch msg.Type {
	case api.MsgJoined:
		var p api.JoinedPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode joined: %w", err)
		}
		b.entityID = p.EntityID
		b.log = b.log.WithField("entity_id", p.EntityID)
		b.log.Info("Bot joined")

	case string(domain.EventTurnStarted):
		var p domain.TurnStartedPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode turn: %w", err)
		}
		if p.EntityID == b.entityID {
			b.actions = 0
			return b.requestSnapshot()
		}

	case api.MsgSnapshot:
		b.awaiting = false
		var snap engine.SessionSnapshot
		if err := json.Unmarshal(msg.Payload, &snap); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		return b.act(snap)

	case string(domain.EventTeamInvite):
		return b.send(api.ActionRespondTeamInvite, api.RespondInvitePayload{Accepted: true})

	case string(domain.EventPeaceProposal):
		var p domain.PeaceProposalPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode peace proposal: %w", err)
		}
		return b.send(api.ActionRespondPeace, api.PeacePayload{CombatID: p.CombatID, Accepted: true})

	case api.MsgError:
		b.log.WithField("payload", string(msg.Payload)).Debug("Server rejected command")
		// Снимок мог устареть, смотрим заново (лимит действий не даст зациклиться)
		if b.actions > 0 {
			return b.requestSnapshot()
		}
	}
	return nil
}

// act делает одно действие, если в снимке сейчас наш ход
func (b *Bot) act(snap engine.SessionSnapshot) error {
	combat := combatOnTurn(snap, b.entityID)
	if combat == nil {
		return nil
	}
	if b.actions >= b.maxActions {
		b.log.Warn("Action limit reached, ending turn")
		return b.command(domain.EndTurnAction())
	}

	grid, entities, me := LocalWorld(snap, combat, b.entityID)
	if me == nil {
		return nil
	}

	action := systems.ComputeNPCAction(me, entities, grid, b.costs)
	b.actions++
	if err := b.command(action); err != nil {
		return err
	}
	if action.Type == domain.ActionEndTurn {
		return nil
	}
	return b.requestSnapshot()
}

func combatOnTurn(snap engine.SessionSnapshot, entityID string) *engine.CombatView {
	for i := range snap.Combats {
		if snap.Combats[i].CurrentTurn == entityID {
			return &snap.Combats[i]
		}
	}
	return nil
}

// LocalWorld создает локальную копию боя из снимка сервера.
// Участникам проставляется TeamID по команде в бою, чтобы AreEnemies видел стороны боя.
// Сущности вне боя только занимают клетки.
func LocalWorld(snap engine.SessionSnapshot, combat *engine.CombatView, selfID string) (*domain.Grid, []*domain.Entity, *domain.Entity) {
	g := domain.NewGrid()
	for _, t := range snap.Tiles {
		g.SetTile(t.Pos, domain.ParseTileType(t.Type))
		if t.OccupantID != "" {
			g.Occupy(t.Pos, t.OccupantID)
		}
	}

	teamOf := make(map[string]string)
	for team, members := range combat.Teams {
		for _, id := range members {
			teamOf[id] = team
		}
	}

	var (
		entities []*domain.Entity
		me       *domain.Entity
	)
	for _, ev := range snap.Entities {
		team, inCombat := teamOf[ev.ID]
		if !inCombat {
			continue
		}
		e := fromView(ev)
		e.TeamID = team
		e.State = domain.StateCombat
		entities = append(entities, e)
		if e.ID == selfID {
			me = e
		}
	}
	return g, entities, me
}

// fromView конвертирует EntityView (DTO) в domain.Entity для систем ИИ
func fromView(ev domain.EntityView) *domain.Entity {
	e := &domain.Entity{
		ID:          ev.ID,
		Name:        ev.Name,
		Pos:         ev.Pos,
		HP:          ev.HP,
		MaxHP:       ev.MaxHP,
		Defense:     ev.Defense,
		AP:          ev.AP,
		MaxAP:       ev.MaxAP,
		Initiative:  ev.Initiative,
		AttackRange: ev.AttackRange,
		IsDead:      ev.IsDead,
	}
	if ev.Kind == domain.KindMonster.String() {
		e.Kind = domain.KindMonster
		e.Monster = &domain.MonsterComponent{TemplateID: ev.TemplateID}
	} else {
		e.Kind = domain.KindPlayer
		e.Player = &domain.PlayerComponent{UserID: ev.UserID}
	}
	return e
}

// --- Хелперы для отправки команд на сервер ---

func (b *Bot) command(a domain.Action) error {
	switch a.Type {
	case domain.ActionMove:
		return b.send(api.ActionMove, api.MovePayload{Q: a.TargetHex.Q, R: a.TargetHex.R})
	case domain.ActionAttack:
		return b.send(api.ActionAttack, api.AttackPayload{TargetID: a.TargetID})
	case domain.ActionCastAbility:
		return b.send(api.ActionCastAbility, api.CastPayload{AbilityID: a.AbilityID, Q: a.TargetHex.Q, R: a.TargetHex.R})
	default:
		return b.send(api.ActionEndTurn, nil)
	}
}

func (b *Bot) requestSnapshot() error {
	if b.awaiting {
		return nil
	}
	b.awaiting = true
	return b.send(api.ActionSnapshot, nil)
}

func (b *Bot) send(action string, payload any) error {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", action, err)
		}
		raw = data
	}
	if err := b.conn.WriteJSON(api.ClientCommand{Action: action, Token: b.UserID, Payload: raw}); err != nil {
		return fmt.Errorf("send %s: %w", action, err)
	}
	return nil
}
