package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/repository"
	"github.com/Freeeeeet/turf_bot/internal/repository/base"
	"github.com/Freeeeeet/turf_bot/internal/validation"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	joinCodeLength   = 8
	joinCodeAttempts = 5
)

type TeamService struct {
	pool     *pgxpool.Pool
	teamRepo *repository.TeamRepository
	logger   *zap.Logger
}

func NewTeamService(pool *pgxpool.Pool, teamRepo *repository.TeamRepository, logger *zap.Logger) *TeamService {
	return &TeamService{
		pool:     pool,
		teamRepo: teamRepo,
		logger:   logger,
	}
}

// NewJoinCode returns a short uppercase code shared with teammates
func NewJoinCode() string {
	code := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(code[:joinCodeLength])
}

// CreateTeam creates a team with the user as its admin
func (s *TeamService) CreateTeam(ctx context.Context, userID int64, name string) (*model.Team, error) {
	name = strings.TrimSpace(name)
	if err := validation.TeamName(name); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		team, err := s.createWithCode(ctx, userID, name, NewJoinCode())
		if err == nil {
			s.logger.Info("Team created",
				zap.Int64("team_id", team.ID),
				zap.Int64("user_id", userID),
				zap.String("name", team.Name),
			)
			return team, nil
		}
		if !base.IsUniqueViolation(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("create team: no free join code after %d attempts", joinCodeAttempts)
}

func (s *TeamService) createWithCode(ctx context.Context, userID int64, name, code string) (*model.Team, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	teams := s.teamRepo.WithTx(tx)
	team := &model.Team{
		Name:      name,
		JoinCode:  code,
		CreatedBy: userID,
	}
	if err := teams.Create(ctx, team); err != nil {
		return nil, err
	}
	if _, err := teams.AddMember(ctx, team.ID, userID, model.TeamRoleAdmin); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return team, nil
}

// JoinTeam adds the user to the team with the given join code
func (s *TeamService) JoinTeam(ctx context.Context, userID int64, code string) (*model.Team, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrTeamNotFound
	}

	team, err := s.teamRepo.GetByJoinCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}

	added, err := s.teamRepo.AddMember(ctx, team.ID, userID, model.TeamRoleMember)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrAlreadyMember
	}

	s.logger.Info("User joined team",
		zap.Int64("team_id", team.ID),
		zap.Int64("user_id", userID),
	)
	return team, nil
}

func (s *TeamService) MyTeams(ctx context.Context, userID int64) ([]*model.TeamMembership, error) {
	return s.teamRepo.ListForUser(ctx, userID)
}

// AdminTeams returns the teams whose wallet the user may spend
func (s *TeamService) AdminTeams(ctx context.Context, userID int64) ([]*model.TeamMembership, error) {
	all, err := s.teamRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var admin []*model.TeamMembership
	for _, m := range all {
		if m.IsAdmin() {
			admin = append(admin, m)
		}
	}
	return admin, nil
}

// GetMembership returns ErrNotTeamMember if the user is not in the team
func (s *TeamService) GetMembership(ctx context.Context, teamID, userID int64) (*model.TeamMembership, error) {
	m, err := s.teamRepo.GetMembership(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotTeamMember
	}
	return m, nil
}

func (s *TeamService) Members(ctx context.Context, teamID int64) ([]*model.TeamMember, error) {
	return s.teamRepo.ListMembers(ctx, teamID)
}
