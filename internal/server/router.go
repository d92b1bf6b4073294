package server

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"
	"github.com/dota2-beta/Dungeon-Game/internal/engine"
	"github.com/dota2-beta/Dungeon-Game/pkg/api"

	"github.com/sirupsen/logrus"
)

// commandFunc - обработчик одной команды клиента
type commandFunc func(c *Client, raw json.RawMessage) error

// protocolError - ошибка разбора команды, уходит клиенту как api.MsgError
type protocolError struct {
	code string
	msg  string
}

func (e *protocolError) Error() string {
	return e.code + ": " + e.msg
}

// withPayload берет типизированный обработчик и превращает его в commandFunc.
// Распаковку и валидацию делает api.Decode.
func withPayload[T any](handler func(c *Client, payload T) error) commandFunc {
	return func(c *Client, raw json.RawMessage) error {
		payload, err := api.Decode[T](raw)
		if err != nil {
			return &protocolError{code: api.CodeBadRequest, msg: err.Error()}
		}
		return handler(c, payload)
	}
}

// withEmptyPayload - обертка для команд без данных
func withEmptyPayload(handler func(c *Client) error) commandFunc {
	return func(c *Client, _ json.RawMessage) error {
		return handler(c)
	}
}

// router сопоставляет имя команды с обработчиком
type router struct {
	handlers map[string]commandFunc
}

func newRouter() *router {
	r := &router{handlers: make(map[string]commandFunc)}

	r.handlers[api.ActionMove] = withPayload(func(c *Client, p api.MovePayload) error {
		return c.manager.HandleAction(c.connID, domain.MoveAction(domain.NewHex(p.Q, p.R)))
	})
	r.handlers[api.ActionAttack] = withPayload(func(c *Client, p api.AttackPayload) error {
		return c.manager.HandleAction(c.connID, domain.AttackAction(p.TargetID))
	})
	r.handlers[api.ActionCastAbility] = withPayload(func(c *Client, p api.CastPayload) error {
		return c.manager.HandleAction(c.connID, domain.CastAction(p.AbilityID, domain.NewHex(p.Q, p.R)))
	})
	r.handlers[api.ActionEndTurn] = withEmptyPayload(func(c *Client) error {
		return c.manager.HandleAction(c.connID, domain.EndTurnAction())
	})

	r.handlers[api.ActionInviteToTeam] = withPayload(func(c *Client, p api.InvitePayload) error {
		return c.manager.InviteToTeam(c.connID, p.TargetEntityID)
	})
	r.handlers[api.ActionRespondTeamInvite] = withPayload(func(c *Client, p api.RespondInvitePayload) error {
		return c.manager.RespondToTeamInvite(c.connID, p.Accepted)
	})
	r.handlers[api.ActionLeaveTeam] = withEmptyPayload(func(c *Client) error {
		return c.manager.LeaveTeam(c.connID)
	})

	r.handlers[api.ActionProposePeace] = withPayload(func(c *Client, p api.PeacePayload) error {
		return c.manager.ProposePeace(c.connID, p.CombatID)
	})
	r.handlers[api.ActionRespondPeace] = withPayload(func(c *Client, p api.PeacePayload) error {
		return c.manager.RespondPeace(c.connID, p.CombatID, p.Accepted)
	})

	r.handlers[api.ActionSnapshot] = withEmptyPayload(func(c *Client) error {
		return c.sendSnapshot()
	})
	return r
}

// dispatch выполняет команду. Отказы правил (*domain.ActionError) сессия уже доставила
// игроку событием error, здесь отвечаем только на ошибки протокола и инфраструктуры.
func (r *router) dispatch(c *Client, cmd api.ClientCommand) {
	action := strings.ToUpper(cmd.Action)
	handler, ok := r.handlers[action]
	if !ok {
		c.sendError(api.CodeUnknownAction, "unknown action "+cmd.Action)
		return
	}

	err := handler(c, cmd.Payload)
	if err == nil {
		return
	}

	var (
		aerr *domain.ActionError
		perr *protocolError
	)
	switch {
	case errors.As(err, &aerr):
		c.log.WithFields(logrus.Fields{"action": action, "code": aerr.Code}).Debug("Action rejected")
	case errors.As(err, &perr):
		c.sendError(perr.code, perr.msg)
	case errors.Is(err, engine.ErrNotJoined), errors.Is(err, engine.ErrSessionNotFound):
		c.sendError(api.CodeNotJoined, err.Error())
	default:
		c.log.WithError(err).WithField("action", action).Error("Command failed")
		c.sendError(api.CodeInternal, "internal error")
	}
}
