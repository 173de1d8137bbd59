package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/turf_bot/internal/model"
	"github.com/Freeeeeet/turf_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInsufficientBalance is returned by Debit when the wallet cannot cover the amount.
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// WalletRepository moves money between wallets and keeps the ledger.
type WalletRepository struct {
	*base.Repository
}

func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{Repository: base.NewRepository(pool)}
}

func (r *WalletRepository) WithTx(tx pgx.Tx) *WalletRepository {
	return &WalletRepository{Repository: r.Repository.WithTx(tx)}
}

func ownerTable(owner model.WalletOwner) (table string, id int64) {
	if owner.IsTeam() {
		return "teams", owner.TeamID
	}
	return "users", owner.UserID
}

func (r *WalletRepository) Balance(ctx context.Context, owner model.WalletOwner) (int, error) {
	table, id := ownerTable(owner)
	query := `SELECT balance FROM ` + table + ` WHERE id = $1`

	var balance int
	if err := r.QueryRow(ctx, query, id).Scan(&balance); err != nil {
		return 0, fmt.Errorf("get %s balance: %w", table, err)
	}
	return balance, nil
}

// Debit subtracts amount if the balance allows it and returns the new balance
func (r *WalletRepository) Debit(ctx context.Context, owner model.WalletOwner, amount int) (int, error) {
	table, id := ownerTable(owner)
	query := `
		UPDATE ` + table + `
		SET balance = balance - $1
		WHERE id = $2 AND balance >= $1
		RETURNING balance
	`

	var balance int
	err := r.QueryRow(ctx, query, amount, id).Scan(&balance)
	if err != nil {
		if base.IsNotFound(err) {
			return 0, ErrInsufficientBalance
		}
		return 0, fmt.Errorf("debit %s wallet: %w", table, err)
	}
	return balance, nil
}

// Credit adds amount and returns the new balance
func (r *WalletRepository) Credit(ctx context.Context, owner model.WalletOwner, amount int) (int, error) {
	table, id := ownerTable(owner)
	query := `UPDATE ` + table + ` SET balance = balance + $1 WHERE id = $2 RETURNING balance`

	var balance int
	if err := r.QueryRow(ctx, query, amount, id).Scan(&balance); err != nil {
		return 0, fmt.Errorf("credit %s wallet: %w", table, err)
	}
	return balance, nil
}

func nullableID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func (r *WalletRepository) AddTransaction(ctx context.Context, owner model.WalletOwner, tx *model.WalletTransaction) error {
	tx.UserID = nil
	tx.TeamID = nil
	if owner.IsTeam() {
		tx.TeamID = nullableID(owner.TeamID)
	} else {
		tx.UserID = nullableID(owner.UserID)
	}

	query := `
		INSERT INTO wallet_transactions (user_id, team_id, type, amount, description, booking_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, tx.UserID, tx.TeamID, tx.Type, tx.Amount, tx.Description, tx.BookingID).
		Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("add wallet transaction: %w", err)
	}
	return nil
}

func ownerColumn(owner model.WalletOwner) (column string, id int64) {
	if owner.IsTeam() {
		return "team_id", owner.TeamID
	}
	return "user_id", owner.UserID
}

// ListTransactions returns a page of the wallet's ledger, newest first
func (r *WalletRepository) ListTransactions(ctx context.Context, owner model.WalletOwner, limit, offset int) ([]*model.WalletTransaction, error) {
	column, id := ownerColumn(owner)
	query := `
		SELECT id, user_id, team_id, type, amount, description, booking_id, created_at
		FROM wallet_transactions
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.Query(ctx, query, id, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list wallet transactions: %w", err)
	}
	defer rows.Close()

	var txs []*model.WalletTransaction
	for rows.Next() {
		var t model.WalletTransaction
		err := rows.Scan(&t.ID, &t.UserID, &t.TeamID, &t.Type, &t.Amount, &t.Description, &t.BookingID, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan wallet transaction: %w", err)
		}
		txs = append(txs, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet transactions: %w", err)
	}
	return txs, nil
}

func (r *WalletRepository) CountTransactions(ctx context.Context, owner model.WalletOwner) (int, error) {
	column, id := ownerColumn(owner)
	query := `SELECT count(*) FROM wallet_transactions WHERE ` + column + ` = $1`

	var count int
	if err := r.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("count wallet transactions: %w", err)
	}
	return count, nil
}
