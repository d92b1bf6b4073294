package engine

import (
	"fmt"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"

	"github.com/sirupsen/logrus"
)

// JoinPlayer ставит игрока на свободную точку появления и возвращает ID его сущности.
// Повторный вход того же пользователя только перепривязывает соединение.
func (s *Session) JoinPlayer(userID, connectionID, classID string) (string, error) {
	var (
		id     string
		result error
	)
	if err := s.do(func() { id, result = s.joinPlayer(userID, connectionID, classID) }); err != nil {
		return "", err
	}
	return id, result
}

func (s *Session) joinPlayer(userID, connectionID, classID string) (string, error) {
	if existing := s.playerByUser(userID); existing != nil {
		existing.Player.ConnectionID = connectionID
		s.log.WithFields(logrus.Fields{
			"entity_id": existing.ID,
			"user_id":   userID,
		}).Info("Player reconnected")
		return existing.ID, nil
	}

	pos, err := s.grid.FreePlayerSpawn()
	if err != nil {
		return "", err
	}
	player, err := s.factory.CreatePlayer(classID, domain.PlayerComponent{
		UserID:       userID,
		ConnectionID: connectionID,
		ClassID:      classID,
	}, pos)
	if err != nil {
		return "", fmt.Errorf("create player: %w", err)
	}
	if err := s.addEntity(player); err != nil {
		return "", fmt.Errorf("place player: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"entity_id": player.ID,
		"user_id":   userID,
		"class":     classID,
		"pos":       pos.String(),
	}).Info("Player joined")
	s.publish(domain.EventPlayerJoined, domain.PlayerJoinedPayload{Entity: player.View()})

	s.checkProximity(player)
	s.drainDeaths()
	return player.ID, nil
}

// HandleDisconnect удаляет игрока, привязанного к соединению. false - такого игрока нет.
func (s *Session) HandleDisconnect(connectionID string) (bool, error) {
	var removed bool
	err := s.do(func() { removed = s.handleDisconnect(connectionID) })
	return removed, err
}

func (s *Session) handleDisconnect(connectionID string) bool {
	player := s.playerByConnection(connectionID)
	if player == nil {
		return false
	}

	if c := s.combatFor(player.ID); c != nil {
		c.RemoveParticipant(player.ID)
	}
	delete(s.invites, player.ID)
	for _, votes := range s.peaceVotes {
		delete(votes, player.ID)
	}

	teamID := player.TeamID
	s.removeEntity(player)
	s.drainDeaths()

	s.publish(domain.EventPlayerLeft, domain.PlayerLeftPayload{
		EntityID: player.ID,
		UserID:   player.UserID(),
	})
	if teamID != "" {
		s.publishTeam(teamID)
	}

	// Оставшиеся голоса могли стать единогласными
	for id := range s.peaceVotes {
		if c := s.combats[id]; c != nil {
			s.resolvePeace(c)
		}
	}

	s.log.WithField("entity_id", player.ID).Info("Player left")
	return true
}
