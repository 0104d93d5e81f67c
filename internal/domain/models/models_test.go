package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomingDate(t *testing.T) {
	entry := func(day string, qty int) IncomingEntry {
		return IncomingEntry{Name: "Rice", DateIn: MustDate(day), Quantity: qty}
	}

	tests := []struct {
		name     string
		entries  []IncomingEntry
		outgoing int
		want     string
	}{
		{
			name:     "second batch still on shelf",
			entries:  []IncomingEntry{entry("2024-01-01", 10), entry("2024-01-03", 10)},
			outgoing: 15,
			want:     "2024-01-03",
		},
		{
			name:     "nothing consumed",
			entries:  []IncomingEntry{entry("2024-01-03", 10), entry("2024-01-01", 10)},
			outgoing: 0,
			want:     "2024-01-01",
		},
		{
			name:     "exactly consumed first batch",
			entries:  []IncomingEntry{entry("2024-01-01", 10), entry("2024-01-03", 10)},
			outgoing: 10,
			want:     "2024-01-03",
		},
		{
			name:     "same day entries are summed together",
			entries:  []IncomingEntry{entry("2024-01-02", 4), entry("2024-01-02", 4), entry("2024-01-05", 1)},
			outgoing: 7,
			want:     "2024-01-02",
		},
		{
			name:     "fully consumed",
			entries:  []IncomingEntry{entry("2024-01-01", 10)},
			outgoing: 10,
		},
		{
			name:     "empty ledger",
			outgoing: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IncomingDate(tt.entries, tt.outgoing)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Exp  *Date `json:"exp"`
		In   Date  `json:"in"`
		Stub Date  `json:"stub"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"exp":"2024-07-04T15:30:00Z","in":"2024-01-02","stub":""}`), &payload))
	require.NotNil(t, payload.Exp)
	assert.Equal(t, "2024-07-04", payload.Exp.String())
	assert.Equal(t, "2024-01-02", payload.In.String())
	assert.True(t, payload.Stub.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"exp":"2024-07-04","in":"2024-01-02","stub":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"in":"yesterday"}`), &payload))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-09", d.String())

	require.NoError(t, d.Scan([]byte("2024-03-10")))
	assert.Equal(t, "2024-03-10", d.String())

	require.NoError(t, d.Scan("2024-03-11 00:00:00+00:00"))
	assert.Equal(t, "2024-03-11", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestAuthority(t *testing.T) {
	assert.True(t, AuthorityAdmin.AtLeast(AuthorityStaff))
	assert.True(t, AuthorityStaff.AtLeast(AuthorityStaff))
	assert.False(t, AuthorityRecipient.AtLeast(AuthorityStaff))
	assert.False(t, Authority("owner").AtLeast(AuthorityRecipient))
	assert.False(t, Authority("").Valid())
}

func TestSummarizeFinance(t *testing.T) {
	records := []FinanceRecord{
		{TransactionType: TransactionIncome, Amount: decimal.RequireFromString("100.10")},
		{TransactionType: TransactionIncome, Amount: decimal.RequireFromString("0.20")},
		{TransactionType: TransactionExpense, Amount: decimal.RequireFromString("40.05")},
	}

	summary := SummarizeFinance(7, records)
	assert.Equal(t, int64(7), summary.PantryID)
	assert.Equal(t, 3, summary.Records)
	assert.Equal(t, "100.3", summary.TotalIncome.String())
	assert.Equal(t, "40.05", summary.TotalExpense.String())
	assert.Equal(t, "60.25", summary.Balance.String())

	empty := SummarizeFinance(1, nil)
	assert.True(t, empty.Balance.IsZero())
}

func TestNewRequestInputMissing(t *testing.T) {
	done := false
	date := MustDate("2024-01-01")
	complete := NewRequestInput{ProfileID: 1, PantryID: 2, ItemName: "Rice", Quantity: 1, RequestDate: &date, Completed: &done}
	assert.False(t, complete.Missing())

	noFlag := complete
	noFlag.Completed = nil
	assert.True(t, noFlag.Missing())

	noQty := complete
	noQty.Quantity = 0
	assert.True(t, noQty.Missing())
}
