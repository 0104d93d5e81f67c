package reporting

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/domain/apperr"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/service/access"
)

const (
	inventorySheet      = "Inventory"
	defaultPopularLimit = 10
)

// Store is the read surface reports are computed from.
type Store interface {
	ListPantries(ctx context.Context) ([]models.Pantry, error)
	ListAllItems(ctx context.Context, pantryID int64) ([]models.InventoryItem, error)
	ListItems(ctx context.Context, pantryID int64) ([]models.InventoryListing, error)
	PopularItems(ctx context.Context, pantryID int64, limit int) ([]models.PopularItem, error)
}

// Notifier delivers digest lines to a pantry's staff.
type Notifier interface {
	NotifyStaff(ctx context.Context, pantryID int64, detail string) (int, error)
}

// Archive keeps inventory snapshots.
type Archive interface {
	SaveInventorySnapshot(ctx context.Context, snapshot models.InventorySnapshot) error
	LatestSnapshot(ctx context.Context, pantryID int64) (*models.InventorySnapshot, error)
}

// Service computes pantry reports and runs the daily digest.
type Service struct {
	store      Store
	notifier   Notifier
	archive    Archive
	access     *access.Checker
	windowDays int
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new reporting service instance. archive may be nil.
func NewService(store Store, notifier Notifier, archive Archive, checker *access.Checker, windowDays int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if windowDays <= 0 {
		windowDays = 7
	}
	return &Service{
		store:      store,
		notifier:   notifier,
		archive:    archive,
		access:     checker,
		windowDays: windowDays,
		logger:     logger,
		now:        time.Now,
	}
}

// Expiry returns the expired and soon-to-expire items of a pantry. days <= 0
// uses the configured window. Staff only.
func (s *Service) Expiry(ctx context.Context, actor, pantryID int64, days int) (models.ExpiryReport, error) {
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityStaff); err != nil {
		return models.ExpiryReport{}, err
	}
	if days <= 0 {
		days = s.windowDays
	}
	return s.expiry(ctx, pantryID, days)
}

func (s *Service) expiry(ctx context.Context, pantryID int64, days int) (models.ExpiryReport, error) {
	items, err := s.store.ListAllItems(ctx, pantryID)
	if err != nil {
		return models.ExpiryReport{}, fmt.Errorf("load items of pantry %d: %w", pantryID, err)
	}
	return ClassifyExpiry(pantryID, items, models.NewDate(s.now()), days), nil
}

// ClassifyExpiry splits items with a positive quantity by expiry date.
// Items expiring on today or within days after it are expiring soon.
func ClassifyExpiry(pantryID int64, items []models.InventoryItem, today models.Date, days int) models.ExpiryReport {
	report := models.ExpiryReport{
		PantryID:     pantryID,
		GeneratedOn:  today,
		WindowDays:   days,
		Expired:      []models.InventoryItem{},
		ExpiringSoon: []models.InventoryItem{},
	}
	horizon := models.NewDate(today.AddDate(0, 0, days))

	for _, item := range items {
		if item.ExpDate == nil || item.ExpDate.IsZero() || item.Quantity <= 0 {
			continue
		}
		switch {
		case item.ExpDate.Before(today):
			report.Expired = append(report.Expired, item)
		case !item.ExpDate.After(horizon):
			report.ExpiringSoon = append(report.ExpiringSoon, item)
		}
	}
	return report
}

// PopularItems ranks a pantry's requested items. Staff only.
func (s *Service) PopularItems(ctx context.Context, actor, pantryID int64, limit int) ([]models.PopularItem, error) {
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityStaff); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultPopularLimit
	}
	return s.store.PopularItems(ctx, pantryID, limit)
}

// ExportInventory renders a pantry's stock as an XLSX workbook. Staff only.
func (s *Service) ExportInventory(ctx context.Context, actor, pantryID int64) ([]byte, error) {
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityStaff); err != nil {
		return nil, err
	}
	listing, err := s.store.ListItems(ctx, pantryID)
	if err != nil {
		return nil, err
	}
	return InventoryWorkbook(listing)
}

// InventoryWorkbook lays listings out one row per item under a header row.
func InventoryWorkbook(listing []models.InventoryListing) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", inventorySheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := []interface{}{"Name", "Quantity", "Expiration Date", "Incoming Date", "Total Outgoing", "Location"}
	if err := f.SetSheetRow(inventorySheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, item := range listing {
		row := []interface{}{
			item.Name,
			item.Quantity,
			dateCell(item.ExpDate),
			dateCell(item.IncomingDate),
			item.TotalOutgoing,
			"",
		}
		if item.LocationName != nil {
			row[5] = *item.LocationName
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(inventorySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func dateCell(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// LatestSnapshot returns the newest archived snapshot of a pantry. Staff
// only.
func (s *Service) LatestSnapshot(ctx context.Context, actor, pantryID int64) (*models.InventorySnapshot, error) {
	if err := s.access.Require(ctx, actor, pantryID, models.AuthorityStaff); err != nil {
		return nil, err
	}
	if s.archive == nil {
		return nil, apperr.Unavailable("Snapshot archive is not configured.")
	}
	snapshot, err := s.archive.LatestSnapshot(ctx, pantryID)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, apperr.NotFound("No snapshot archived for this pantry")
	}
	return snapshot, nil
}

// DigestResult summarises one digest run.
type DigestResult struct {
	Pantries      int
	Notifications int
	Snapshots     int
	Failures      int
}

// RunDigest notifies every pantry's staff about expired and expiring stock
// and archives a snapshot of each pantry. A failing pantry does not stop the
// run.
func (s *Service) RunDigest(ctx context.Context) (DigestResult, error) {
	pantries, err := s.store.ListPantries(ctx)
	if err != nil {
		return DigestResult{}, fmt.Errorf("load pantries: %w", err)
	}

	result := DigestResult{Pantries: len(pantries)}
	for _, pantry := range pantries {
		logger := s.logger.With(zap.Int64("pantry_id", pantry.ID))

		items, err := s.store.ListAllItems(ctx, pantry.ID)
		if err != nil {
			logger.Error("failed to load items", zap.Error(err))
			result.Failures++
			continue
		}

		report := ClassifyExpiry(pantry.ID, items, models.NewDate(s.now()), s.windowDays)
		if !report.Empty() {
			sent, err := s.notifier.NotifyStaff(ctx, pantry.ID, DigestDetail(report))
			if err != nil {
				logger.Error("failed to notify staff", zap.Error(err))
				result.Failures++
			}
			result.Notifications += sent
		}

		if s.archive != nil {
			if err := s.archive.SaveInventorySnapshot(ctx, Snapshot(pantry.ID, items, s.now())); err != nil {
				logger.Warn("failed to archive snapshot", zap.Error(err))
				result.Failures++
				continue
			}
			result.Snapshots++
		}
	}

	s.logger.Info("digest finished",
		zap.Int("pantries", result.Pantries),
		zap.Int("notifications", result.Notifications),
		zap.Int("snapshots", result.Snapshots),
		zap.Int("failures", result.Failures))
	return result, nil
}

// DigestDetail renders the notification line for an expiry report.
func DigestDetail(report models.ExpiryReport) string {
	var parts []string
	if len(report.Expired) > 0 {
		parts = append(parts, fmt.Sprintf("Expired: %s.", itemNames(report.Expired)))
	}
	if len(report.ExpiringSoon) > 0 {
		parts = append(parts, fmt.Sprintf("Expiring within %d days: %s.", report.WindowDays, itemNames(report.ExpiringSoon)))
	}
	return strings.Join(parts, " ")
}

func itemNames(items []models.InventoryItem) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, fmt.Sprintf("%s (%d, %s)", item.Name, item.Quantity, item.ExpDate.String()))
	}
	return strings.Join(names, ", ")
}

// Snapshot captures a pantry's stock at takenAt.
func Snapshot(pantryID int64, items []models.InventoryItem, takenAt time.Time) models.InventorySnapshot {
	today := models.NewDate(takenAt)
	snapshot := models.InventorySnapshot{
		PantryID:   pantryID,
		TakenAt:    takenAt.UTC(),
		TotalItems: len(items),
		Items:      make([]models.SnapshotLineItem, 0, len(items)),
	}
	for _, item := range items {
		line := models.SnapshotLineItem{Name: item.Name, Quantity: item.Quantity}
		if item.ExpDate != nil && !item.ExpDate.IsZero() {
			exp := item.ExpDate.Time
			line.ExpDate = &exp
			if item.ExpDate.Before(today) {
				snapshot.Expired++
			}
		}
		snapshot.TotalUnits += item.Quantity
		snapshot.Items = append(snapshot.Items, line)
	}
	return snapshot
}
