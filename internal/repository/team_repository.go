package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const teamColumns = `t.id, t.name, t.join_code, t.balance, t.created_by, t.created_at`

type TeamRepository struct {
	*base.Repository
}

func NewTeamRepository(pool *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{Repository: base.NewRepository(pool)}
}

func (r *TeamRepository) WithTx(tx pgx.Tx) *TeamRepository {
	return &TeamRepository{Repository: r.Repository.WithTx(tx)}
}

func scanTeam(row pgx.Row, extra ...any) (*model.Team, error) {
	var team model.Team
	dest := append([]any{
		&team.ID,
		&team.Name,
		&team.JoinCode,
		&team.Balance,
		&team.CreatedBy,
		&team.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepository) Create(ctx context.Context, team *model.Team) error {
	query := `
		INSERT INTO teams (name, join_code, balance, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, team.Name, team.JoinCode, team.Balance, team.CreatedBy).
		Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*model.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams t WHERE t.id = $1`

	team, err := scanTeam(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team by id: %w", err)
	}
	return team, nil
}

func (r *TeamRepository) GetByJoinCode(ctx context.Context, code string) (*model.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams t WHERE t.join_code = $1`

	team, err := scanTeam(r.QueryRow(ctx, query, code))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team by join code: %w", err)
	}
	return team, nil
}

// AddMember inserts a membership; an existing one is left as is
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID int64, role model.TeamRole) (bool, error) {
	query := `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`

	affected, err := r.ExecAffected(ctx, query, teamID, userID, role)
	if err != nil {
		return false, fmt.Errorf("add team member: %w", err)
	}
	return affected > 0, nil
}

// GetMembership returns nil, nil when the user is not in the team
func (r *TeamRepository) GetMembership(ctx context.Context, teamID, userID int64) (*model.TeamMembership, error) {
	query := `
		SELECT ` + teamColumns + `, m.role,
			(SELECT count(*) FROM team_members c WHERE c.team_id = t.id)
		FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE t.id = $1 AND m.user_id = $2
	`

	var membership model.TeamMembership
	team, err := scanTeam(r.QueryRow(ctx, query, teamID, userID), &membership.Role, &membership.MemberCount)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team membership: %w", err)
	}
	membership.Team = team
	return &membership, nil
}

// ListForUser returns the teams of a user, admin teams first
func (r *TeamRepository) ListForUser(ctx context.Context, userID int64) ([]*model.TeamMembership, error) {
	query := `
		SELECT ` + teamColumns + `, m.role,
			(SELECT count(*) FROM team_members c WHERE c.team_id = t.id)
		FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = $1
		ORDER BY m.role = 'admin' DESC, t.name
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list teams for user: %w", err)
	}
	defer rows.Close()

	var memberships []*model.TeamMembership
	for rows.Next() {
		var m model.TeamMembership
		team, err := scanTeam(rows, &m.Role, &m.MemberCount)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		m.Team = team
		memberships = append(memberships, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}
	return memberships, nil
}

func (r *TeamRepository) ListMembers(ctx context.Context, teamID int64) ([]*model.TeamMember, error) {
	query := `
		SELECT team_id, user_id, role, joined_at
		FROM team_members
		WHERE team_id = $1
		ORDER BY role = 'admin' DESC, joined_at
	`

	rows, err := r.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	var members []*model.TeamMember
	for rows.Next() {
		var m model.TeamMember
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		members = append(members, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team members: %w", err)
	}
	return members, nil
}
