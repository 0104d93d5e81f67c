package mysql

import (
	"context"
	"fmt"

	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

// PopularItems aggregates open and completed requests of a pantry by item
// name, joined with the outgoing ledger totals.
func (s *Store) PopularItems(ctx context.Context, pantryID int64, limit int) ([]models.PopularItem, error) {
	db := s.conn(ctx)

	var demand []models.PopularItem
	query := db.Model(&models.Request{}).
		Select("item_name, COUNT(*) AS request_count, SUM(quantity) AS requested_qty").
		Where("pantry_id = ?", pantryID).
		Group("item_name").
		Order("request_count DESC, item_name")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&demand).Error; err != nil {
		return nil, fmt.Errorf("aggregate requests of pantry %d: %w", pantryID, translate(err))
	}

	type nameTotal struct {
		Name  string
		Total int
	}
	var totals []nameTotal
	if err := db.Model(&models.OutgoingEntry{}).
		Select("name, SUM(quantity) AS total").
		Where("pantry_id = ?", pantryID).
		Group("name").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("aggregate outgoing of pantry %d: %w", pantryID, translate(err))
	}
	outgoing := make(map[string]int, len(totals))
	for _, t := range totals {
		outgoing[t.Name] = t.Total
	}

	for i := range demand {
		demand[i].OutgoingTotal = outgoing[demand[i].ItemName]
	}
	if demand == nil {
		demand = []models.PopularItem{}
	}
	return demand, nil
}
