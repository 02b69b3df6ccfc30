// Package postgres stores durable account snapshots in PostgreSQL.
// Live accounts stay in memory; this store is written through on every save
// and read back once at startup.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/financial-operations-ledger/internal/domain/account"
	"github.com/financial-operations-ledger/internal/domain/ledger"
	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/financial-operations-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	upsertAccountQuery = `
		INSERT INTO accounts (id, customer_id, available_balance, reserved_balance, credit_limit, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE
		SET available_balance = EXCLUDED.available_balance,
			reserved_balance = EXCLUDED.reserved_balance,
			status = EXCLUDED.status,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
		WHERE accounts.version < EXCLUDED.version
	`

	lastSequenceQuery = `
		SELECT COALESCE(MAX(seq), 0)
		FROM account_transactions
		WHERE account_id = $1
	`

	insertTransactionQuery = `
		INSERT INTO account_transactions (id, account_id, seq, type, amount, description, status, original_transaction_id, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`

	selectAccountsQuery = `
		SELECT id, customer_id, available_balance, reserved_balance, credit_limit, status, version, created_at, updated_at
		FROM accounts
		ORDER BY created_at, id
	`

	selectTransactionsQuery = `
		SELECT id, account_id, type, amount, description, status, original_transaction_id, created_at, processed_at
		FROM account_transactions
		ORDER BY account_id, seq
	`
)

// AccountSnapshotRepository implements account.SnapshotStore
type AccountSnapshotRepository struct {
	db     persistence.TxBeginner
	logger *slog.Logger
}

var _ account.SnapshotStore = (*AccountSnapshotRepository)(nil)

func NewAccountSnapshotRepository(logger *slog.Logger, db *persistence.PostgresDB) *AccountSnapshotRepository {
	return &AccountSnapshotRepository{
		db:     db.Pool(),
		logger: logger,
	}
}

// SaveSnapshot upserts the account row and appends transactions the store
// has not seen yet. A snapshot older than the stored version is ignored,
// since concurrent saves of the same account may arrive out of order.
func (r *AccountSnapshotRepository) SaveSnapshot(ctx context.Context, s account.Snapshot) error {
	err := persistence.InTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, upsertAccountQuery,
			s.ID,
			s.CustomerID,
			s.AvailableBalance,
			s.ReservedBalance,
			s.CreditLimit,
			string(s.Status),
			s.Version,
			s.CreatedAt,
			s.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert account: %w", err)
		}
		if tag.RowsAffected() == 0 {
			r.logger.Debug("Skipped stale account snapshot", "account_id", s.ID, "version", s.Version)
			return nil
		}

		var stored int
		if err := tx.QueryRow(ctx, lastSequenceQuery, s.ID).Scan(&stored); err != nil {
			return fmt.Errorf("failed to read stored transaction count: %w", err)
		}
		for i := stored; i < len(s.Transactions); i++ {
			t := s.Transactions[i]
			_, err := tx.Exec(ctx, insertTransactionQuery,
				t.ID,
				t.AccountID,
				i+1,
				string(t.Type),
				t.Amount,
				t.Description,
				string(t.Status),
				t.OriginalTransactionID,
				t.CreatedAt,
				t.ProcessedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to insert transaction %s: %w", t.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save account snapshot", "account_id", s.ID, "error", err)
		return fmt.Errorf("failed to save account snapshot: %w", err)
	}
	return nil
}

// LoadSnapshots reads every account with its full history
func (r *AccountSnapshotRepository) LoadSnapshots(ctx context.Context) ([]account.Snapshot, error) {
	rows, err := r.db.Query(ctx, selectAccountsQuery)
	if err != nil {
		r.logger.Error("Failed to query accounts", "error", err)
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var snapshots []account.Snapshot
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var s account.Snapshot
		var status string
		if err := rows.Scan(
			&s.ID,
			&s.CustomerID,
			&s.AvailableBalance,
			&s.ReservedBalance,
			&s.CreditLimit,
			&status,
			&s.Version,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		s.Status = shared.AccountStatus(status)
		index[s.ID] = len(snapshots)
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	if err := r.attachTransactions(ctx, snapshots, index); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (r *AccountSnapshotRepository) attachTransactions(ctx context.Context, snapshots []account.Snapshot, index map[uuid.UUID]int) error {
	rows, err := r.db.Query(ctx, selectTransactionsQuery)
	if err != nil {
		r.logger.Error("Failed to query account transactions", "error", err)
		return fmt.Errorf("failed to query account transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t ledger.Transaction
		var txType, status string
		if err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&txType,
			&t.Amount,
			&t.Description,
			&status,
			&t.OriginalTransactionID,
			&t.CreatedAt,
			&t.ProcessedAt,
		); err != nil {
			return fmt.Errorf("failed to scan account transaction: %w", err)
		}
		t.Type = shared.TransactionType(txType)
		t.Status = shared.TransactionStatus(status)

		i, ok := index[t.AccountID]
		if !ok {
			r.logger.Warn("Skipping transaction of unknown account", "transaction_id", t.ID, "account_id", t.AccountID)
			continue
		}
		snapshots[i].Transactions = append(snapshots[i].Transactions, t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating account transactions: %w", err)
	}
	return nil
}
