// Package mongo stores the transaction journal in MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/financial-operations-ledger/internal/domain/ledger"
	"github.com/financial-operations-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const JournalCollectionName = "transaction_journal"

// journalDocument is the stored shape of a ledger.Transaction.
// Ids are kept as strings and amounts as Decimal128.
type journalDocument struct {
	TransactionID         string               `bson:"transaction_id"`
	AccountID             string               `bson:"account_id"`
	Type                  string               `bson:"type"`
	Amount                primitive.Decimal128 `bson:"amount"`
	Description           string               `bson:"description"`
	Status                string               `bson:"status"`
	OriginalTransactionID string               `bson:"original_transaction_id,omitempty"`
	CreatedAt             time.Time            `bson:"created_at"`
	ProcessedAt           time.Time            `bson:"processed_at"`
	RecordedAt            time.Time            `bson:"recorded_at"`
}

func toDocument(tx *ledger.Transaction) (journalDocument, error) {
	amount, err := primitive.ParseDecimal128(tx.Amount.String())
	if err != nil {
		return journalDocument{}, fmt.Errorf("invalid amount %s: %w", tx.Amount, err)
	}
	doc := journalDocument{
		TransactionID: tx.ID.String(),
		AccountID:     tx.AccountID.String(),
		Type:          string(tx.Type),
		Amount:        amount,
		Description:   tx.Description,
		Status:        string(tx.Status),
		CreatedAt:     tx.CreatedAt,
		ProcessedAt:   tx.ProcessedAt,
		RecordedAt:    time.Now().UTC(),
	}
	if tx.OriginalTransactionID != nil {
		doc.OriginalTransactionID = tx.OriginalTransactionID.String()
	}
	return doc, nil
}

func fromDocument(doc journalDocument) (*ledger.Transaction, error) {
	id, err := uuid.Parse(doc.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id %q: %w", doc.TransactionID, err)
	}
	accountID, err := uuid.Parse(doc.AccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account id %q: %w", doc.AccountID, err)
	}
	amount, err := decimal.NewFromString(doc.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", doc.Amount.String(), err)
	}

	tx := &ledger.Transaction{
		ID:          id,
		AccountID:   accountID,
		Type:        shared.TransactionType(doc.Type),
		Amount:      amount,
		Description: doc.Description,
		Status:      shared.TransactionStatus(doc.Status),
		CreatedAt:   doc.CreatedAt,
		ProcessedAt: doc.ProcessedAt,
	}
	if doc.OriginalTransactionID != "" {
		original, err := uuid.Parse(doc.OriginalTransactionID)
		if err != nil {
			return nil, fmt.Errorf("invalid original transaction id %q: %w", doc.OriginalTransactionID, err)
		}
		tx.OriginalTransactionID = &original
	}
	return tx, nil
}

// LedgerRepository implements ledger.Repository on a MongoDB collection
type LedgerRepository struct {
	collection *mongo.Collection
	logger     *slog.Logger
}

var _ ledger.Repository = (*LedgerRepository)(nil)

func NewLedgerRepository(logger *slog.Logger, db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{
		collection: db.Collection(JournalCollectionName),
		logger:     logger,
	}
}

// EnsureIndexes creates the unique transaction index and the per-account history index
func (r *LedgerRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transaction_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_transaction_id"),
		},
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("account_history"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create journal indexes: %w", err)
	}
	return nil
}

// Create appends a transaction. A second insert of the same id yields ErrDuplicateEntry.
func (r *LedgerRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	doc, err := toDocument(tx)
	if err != nil {
		return err
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ledger.ErrDuplicateEntry{TransactionID: tx.ID}
		}
		r.logger.Error("Failed to create journal entry", "transaction_id", tx.ID.String(), "error", err)
		return fmt.Errorf("failed to create journal entry: %w", err)
	}
	return nil
}

func (r *LedgerRepository) GetByID(ctx context.Context, transactionID uuid.UUID) (*ledger.Transaction, error) {
	var doc journalDocument
	err := r.collection.FindOne(ctx, bson.M{"transaction_id": transactionID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ledger.ErrEntryNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get journal entry", "transaction_id", transactionID.String(), "error", err)
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}
	return fromDocument(doc)
}

// GetByAccountID returns one page of an account's journal, newest first
func (r *LedgerRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, bson.M{"account_id": accountID.String()}, opts)
	if err != nil {
		r.logger.Error("Failed to query journal", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []journalDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode journal entries: %w", err)
	}

	out := make([]*ledger.Transaction, 0, len(docs))
	for _, doc := range docs {
		tx, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *LedgerRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"account_id": accountID.String()})
	if err != nil {
		r.logger.Error("Failed to count journal entries", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return n, nil
}
