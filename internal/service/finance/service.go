package finance

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/apperr"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql"
	"github.com/mamadbah2/pantry-helper/internal/service/access"
)

// Store is the persistence surface for finance records.
type Store interface {
	ListFinance(ctx context.Context, pantryID int64) ([]models.FinanceRecord, error)
	GetFinance(ctx context.Context, id int64) (models.FinanceRecord, error)
	CreateFinance(ctx context.Context, record *models.FinanceRecord) error
	UpdateFinance(ctx context.Context, id int64, in models.FinanceInput) error
	DeleteFinance(ctx context.Context, id int64) error
}

// Ledger receives a copy of every new record.
type Ledger interface {
	AppendFinance(ctx context.Context, record models.FinanceRecord) error
}

// Service manages a pantry's money movements.
type Service struct {
	store  Store
	ledger Ledger
	access *access.Checker
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs a finance service. ledger may be nil.
func NewService(store Store, ledger Ledger, checker *access.Checker, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, ledger: ledger, access: checker, logger: logger, now: time.Now}
}

var errRecordNotFound = apperr.NotFound("Finance record not found")

// List returns a pantry's records. Staff only.
func (s *Service) List(ctx context.Context, actor, pantryID int64) ([]models.FinanceRecord, error) {
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityStaff); err != nil {
		return nil, err
	}
	return s.store.ListFinance(ctx, pantryID)
}

// Summary totals a pantry's income and expenses. Staff only.
func (s *Service) Summary(ctx context.Context, actor, pantryID int64) (models.FinanceSummary, error) {
	records, err := s.List(ctx, actor, pantryID)
	if err != nil {
		return models.FinanceSummary{}, err
	}
	return models.SummarizeFinance(pantryID, records), nil
}

// Create records a money movement and mirrors it to the ledger when one is
// configured. Staff only.
func (s *Service) Create(ctx context.Context, actor, pantryID int64, in models.FinanceInput) (models.FinanceRecord, error) {
	if err := s.validate(&in); err != nil {
		return models.FinanceRecord{}, err
	}
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityStaff); err != nil {
		return models.FinanceRecord{}, err
	}

	record := models.FinanceRecord{
		PantryID:        pantryID,
		TransactionType: in.TransactionType,
		Amount:          in.Amount,
		TransactionDate: in.TransactionDate,
		Description:     in.Description,
	}
	if err := s.store.CreateFinance(ctx, &record); err != nil {
		return models.FinanceRecord{}, err
	}

	if s.ledger != nil {
		if err := s.ledger.AppendFinance(ctx, record); err != nil {
			s.logger.Warn("failed to mirror finance record", zap.Int64("record_id", record.ID), zap.Error(err))
		}
	}
	return record, nil
}

// Update edits a record. Staff of the record's pantry only.
func (s *Service) Update(ctx context.Context, actor, id int64, in models.FinanceInput) error {
	if err := s.validate(&in); err != nil {
		return err
	}
	record, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.Require(ctx, actor, record.PantryID, models.AuthorityStaff); err != nil {
		return err
	}
	err = s.store.UpdateFinance(ctx, id, in)
	if errors.Is(err, mysql.ErrNotFound) {
		return errRecordNotFound
	}
	return err
}

// Delete removes a record. Staff of the record's pantry only.
func (s *Service) Delete(ctx context.Context, actor, id int64) error {
	record, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.Require(ctx, actor, record.PantryID, models.AuthorityStaff); err != nil {
		return err
	}
	err = s.store.DeleteFinance(ctx, id)
	if errors.Is(err, mysql.ErrNotFound) {
		return errRecordNotFound
	}
	return err
}

func (s *Service) load(ctx context.Context, id int64) (models.FinanceRecord, error) {
	record, err := s.store.GetFinance(ctx, id)
	if errors.Is(err, mysql.ErrNotFound) {
		return models.FinanceRecord{}, errRecordNotFound
	}
	return record, err
}

func (s *Service) validate(in *models.FinanceInput) error {
	if !in.TransactionType.Valid() {
		return apperr.Invalid("transactionType must be Income or Expense.")
	}
	if in.Amount.IsNegative() {
		return apperr.Invalid("amount must not be negative.")
	}
	if in.TransactionDate.IsZero() {
		in.TransactionDate = models.NewDate(s.now())
	}
	in.Description = strings.TrimSpace(in.Description)
	return nil
}
