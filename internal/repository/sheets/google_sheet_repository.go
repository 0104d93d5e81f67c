package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/pantry-helper/internal/config"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
)

// FinanceRange is the sheet range finance records are appended to.
const FinanceRange = "Finance!A:F"

// Ledger mirrors finance records into a spreadsheet.
type Ledger interface {
	AppendFinance(ctx context.Context, record models.FinanceRecord) error
}

// GoogleSheetRepository appends rows through the Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed ledger.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendFinance writes one finance record as a row.
func (r *GoogleSheetRepository) AppendFinance(ctx context.Context, record models.FinanceRecord) error {
	return r.writeRow(ctx, FinanceRange, FinanceRow(record))
}

// FinanceRow lays a record out as date, pantry, type, amount, description, id.
func FinanceRow(record models.FinanceRecord) []interface{} {
	return []interface{}{
		record.TransactionDate.String(),
		record.PantryID,
		string(record.TransactionType),
		record.Amount.StringFixed(2),
		record.Description,
		record.ID,
	}
}

func (r *GoogleSheetRepository) writeRow(ctx context.Context, sheetRange string, values []interface{}) error {
	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}
