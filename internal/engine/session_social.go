package engine

import (
	"sort"

	"github.com/dota2-beta/Dungeon-Game/internal/domain"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// --- Команды ---

// InviteToTeam - приглашение игрока targetEntityID в команду пригласившего
func (s *Session) InviteToTeam(inviterUserID, targetEntityID string) error {
	var result error
	if err := s.do(func() { result = s.inviteToTeam(inviterUserID, targetEntityID) }); err != nil {
		return err
	}
	return result
}

func (s *Session) inviteToTeam(inviterUserID, targetEntityID string) error {
	inviter := s.playerByUser(inviterUserID)
	target := s.entities[targetEntityID]

	switch {
	case inviter == nil || inviter.IsDead:
		return s.reject(inviter, domain.NewActionError(domain.CodeInviteInvalid, "inviter is not an active player"))
	case target == nil || !target.IsPlayer() || target.IsDead:
		return s.reject(inviter, domain.NewActionError(domain.CodeInviteInvalid, "target is not an active player"))
	case target.ID == inviter.ID:
		return s.reject(inviter, domain.NewActionError(domain.CodeInviteInvalid, "cannot invite yourself"))
	case inviter.TeamID != "" && inviter.TeamID == target.TeamID:
		return s.reject(inviter, domain.NewActionError(domain.CodeInviteInvalid, "%s is already in your team", target.Name))
	case inviter.InCombat() || target.InCombat():
		return s.reject(inviter, domain.NewActionError(domain.CodeInviteInvalid, "cannot change teams during combat"))
	}

	if inviter.TeamID == "" {
		inviter.TeamID = uuid.NewString()
		s.publishTeam(inviter.TeamID)
	}
	s.invites[target.ID] = inviter.TeamID

	s.notifyUser(target, domain.EventTeamInvite, domain.TeamInvitePayload{
		TeamID:      inviter.TeamID,
		InviterID:   inviter.ID,
		InviterName: inviter.Name,
	})
	s.log.WithFields(logrus.Fields{
		"inviter_id": inviter.ID,
		"target_id":  target.ID,
		"team_id":    inviter.TeamID,
	}).Info("Team invite sent")
	return nil
}

// RespondToTeamInvite - ответ на ожидающее приглашение
func (s *Session) RespondToTeamInvite(userID string, accepted bool) error {
	var result error
	if err := s.do(func() { result = s.respondToTeamInvite(userID, accepted) }); err != nil {
		return err
	}
	return result
}

func (s *Session) respondToTeamInvite(userID string, accepted bool) error {
	player := s.playerByUser(userID)
	if player == nil {
		return domain.NewActionError(domain.CodeNoInviteFound, "player not found")
	}
	teamID, ok := s.invites[player.ID]
	if !ok {
		return s.reject(player, domain.NewActionError(domain.CodeNoInviteFound, "no pending invite"))
	}
	delete(s.invites, player.ID)

	if !accepted {
		s.log.WithField("entity_id", player.ID).Debug("Team invite declined")
		return nil
	}
	if player.IsDead || player.InCombat() {
		return s.reject(player, domain.NewActionError(domain.CodeInviteInvalid, "cannot change teams now"))
	}

	oldTeam := player.TeamID
	player.TeamID = teamID
	s.publishTeam(teamID)
	if oldTeam != "" && oldTeam != teamID {
		s.publishTeam(oldTeam)
	}
	return nil
}

// LeaveTeam - выход из команды
func (s *Session) LeaveTeam(userID string) error {
	var result error
	if err := s.do(func() { result = s.leaveTeam(userID) }); err != nil {
		return err
	}
	return result
}

func (s *Session) leaveTeam(userID string) error {
	player := s.playerByUser(userID)
	if player == nil || player.TeamID == "" {
		return s.reject(player, domain.NewActionError(domain.CodeInviteInvalid, "not in a team"))
	}
	if player.InCombat() {
		return s.reject(player, domain.NewActionError(domain.CodeInviteInvalid, "cannot change teams during combat"))
	}
	old := player.TeamID
	player.TeamID = ""
	s.publishTeam(old)
	return nil
}

func (s *Session) teamMembers(teamID string) []string {
	ids := make([]string, 0)
	for _, e := range s.entities {
		if e.TeamID == teamID {
			ids = append(ids, e.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

func (s *Session) publishTeam(teamID string) {
	s.publish(domain.EventTeamUpdated, domain.TeamUpdatedPayload{
		TeamID:    teamID,
		MemberIDs: s.teamMembers(teamID),
	})
}

// --- Мирный договор ---

// HandlePeaceProposal - игрок предлагает закончить бой миром
func (s *Session) HandlePeaceProposal(userID, combatID string) error {
	var result error
	if err := s.do(func() { result = s.handlePeaceProposal(userID, combatID) }); err != nil {
		return err
	}
	return result
}

// HandlePeaceResponse - голос игрока по предложению мира
func (s *Session) HandlePeaceResponse(userID, combatID string, accepted bool) error {
	var result error
	if err := s.do(func() { result = s.handlePeaceResponse(userID, combatID, accepted) }); err != nil {
		return err
	}
	return result
}

// peaceParticipant проверяет, что игрок жив и участвует в активном бою combatID
func (s *Session) peaceParticipant(userID, combatID string) (*domain.Entity, *Combat, error) {
	player := s.playerByUser(userID)
	if player == nil || player.IsDead {
		return nil, nil, s.reject(player, domain.NewActionError(domain.CodePlayerIsDead, "player is dead or gone"))
	}
	c := s.combats[combatID]
	if c == nil || !c.IsActive() || !c.Has(player.ID) {
		return nil, nil, s.reject(player, domain.NewActionError(domain.CodeCombatNotFound, "you are not in combat %s", combatID))
	}
	return player, c, nil
}

// alivePlayersAndMonsters - живые участники боя по типам
func (s *Session) alivePlayersAndMonsters(c *Combat) (players []*domain.Entity, monsters int) {
	for _, id := range c.ParticipantIDs() {
		e := s.entities[id]
		if e == nil || e.IsDead {
			continue
		}
		if e.IsPlayer() {
			players = append(players, e)
		} else {
			monsters++
		}
	}
	return players, monsters
}

func (s *Session) handlePeaceProposal(userID, combatID string) error {
	proposer, c, err := s.peaceParticipant(userID, combatID)
	if err != nil {
		return err
	}
	players, monsters := s.alivePlayersAndMonsters(c)
	if monsters > 0 {
		return s.reject(proposer, domain.NewActionError(domain.CodePeaceNotAllowed, "monsters do not negotiate"))
	}

	s.peaceVotes[c.ID] = map[string]bool{proposer.ID: true}
	for _, p := range players {
		if p.ID == proposer.ID {
			continue
		}
		s.notifyUser(p, domain.EventPeaceProposal, domain.PeaceProposalPayload{
			CombatID:     c.ID,
			ProposerID:   proposer.ID,
			ProposerName: proposer.Name,
		})
	}
	s.log.WithFields(logrus.Fields{"combat_id": c.ID, "proposer_id": proposer.ID}).Info("Peace proposed")

	s.resolvePeace(c)
	return nil
}

func (s *Session) handlePeaceResponse(userID, combatID string, accepted bool) error {
	voter, c, err := s.peaceParticipant(userID, combatID)
	if err != nil {
		return err
	}
	votes, ok := s.peaceVotes[c.ID]
	if !ok {
		return s.reject(voter, domain.NewActionError(domain.CodePeaceNotAllowed, "no peace proposal is pending"))
	}

	if !accepted {
		delete(s.peaceVotes, c.ID)
		players, _ := s.alivePlayersAndMonsters(c)
		for _, p := range players {
			s.notifyUser(p, domain.EventPeaceResult, domain.PeaceResultPayload{
				CombatID:     c.ID,
				Accepted:     false,
				RejectorName: voter.Name,
			})
		}
		s.log.WithFields(logrus.Fields{"combat_id": c.ID, "rejector_id": voter.ID}).Info("Peace rejected")
		return nil
	}

	votes[voter.ID] = true
	s.resolvePeace(c)
	return nil
}

// resolvePeace завершает бой миром, если все живые игроки согласны и живых монстров нет
func (s *Session) resolvePeace(c *Combat) {
	votes, ok := s.peaceVotes[c.ID]
	if !ok || !c.IsActive() {
		return
	}
	players, monsters := s.alivePlayersAndMonsters(c)
	if monsters > 0 || len(players) == 0 {
		return
	}
	for _, p := range players {
		if !votes[p.ID] {
			return
		}
	}

	delete(s.peaceVotes, c.ID)
	s.log.WithField("combat_id", c.ID).Info("Peace accepted")
	c.EndByAgreement()
	for _, p := range players {
		s.notifyUser(p, domain.EventPeaceResult, domain.PeaceResultPayload{
			CombatID: c.ID,
			Accepted: true,
		})
	}
}
