package mysql

import (
	"context"
	"fmt"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

// ListFinance returns a pantry's finance records, newest first.
func (s *Store) ListFinance(ctx context.Context, pantryID int64) ([]models.FinanceRecord, error) {
	records := []models.FinanceRecord{}
	if err := s.conn(ctx).Where("pantry_id = ?", pantryID).
		Order("transaction_date DESC, id DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list finance of pantry %d: %w", pantryID, translate(err))
	}
	return records, nil
}

// GetFinance loads one record.
func (s *Store) GetFinance(ctx context.Context, id int64) (models.FinanceRecord, error) {
	var record models.FinanceRecord
	err := first(s.conn(ctx), &record, "id = ?", id)
	return record, err
}

// CreateFinance inserts a record and fills its ID.
func (s *Store) CreateFinance(ctx context.Context, record *models.FinanceRecord) error {
	if err := s.conn(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("create finance record: %w", translate(err))
	}
	return nil
}

// UpdateFinance overwrites a record's editable fields.
func (s *Store) UpdateFinance(ctx context.Context, id int64, in models.FinanceInput) error {
	result := s.conn(ctx).Model(&models.FinanceRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
		"transaction_type": in.TransactionType,
		"amount":           in.Amount,
		"transaction_date": in.TransactionDate,
		"description":      in.Description,
	})
	if err := affected(result); err != nil {
		return fmt.Errorf("update finance record %d: %w", id, err)
	}
	return nil
}

// DeleteFinance removes a record.
func (s *Store) DeleteFinance(ctx context.Context, id int64) error {
	if err := affected(s.conn(ctx).Delete(&models.FinanceRecord{}, id)); err != nil {
		return fmt.Errorf("delete finance record %d: %w", id, err)
	}
	return nil
}
