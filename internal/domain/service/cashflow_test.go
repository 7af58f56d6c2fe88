package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cashlens/cashlens/internal/domain/model"
	"github.com/cashlens/cashlens/internal/domain/service"
)

func txn(account, amount string) model.Transaction {
	return model.Transaction{
		ProviderAccountID: account,
		Amount:            decimal.RequireFromString(amount),
		Date:              time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestClassifyCashflow(t *testing.T) {
	tests := []struct {
		name        string
		txns        []model.Transaction
		flags       map[string]service.CategoryFlags
		wantInflow  string
		wantOutflow string
	}{
		{
			name:        "deposit on inflow-only account counts as inflow",
			txns:        []model.Transaction{txn("checking", "3000")},
			flags:       map[string]service.CategoryFlags{"checking": {Inflow: true}},
			wantInflow:  "3000",
			wantOutflow: "0",
		},
		{
			name:        "withdrawal on outflow-only account counts as outflow",
			txns:        []model.Transaction{txn("credit", "-150")},
			flags:       map[string]service.CategoryFlags{"credit": {Outflow: true}},
			wantInflow:  "0",
			wantOutflow: "150",
		},
		{
			name:        "withdrawal on inflow-and-outflow account counts as outflow",
			txns:        []model.Transaction{txn("checking", "-1200")},
			flags:       map[string]service.CategoryFlags{"checking": {Inflow: true, Outflow: true}},
			wantInflow:  "0",
			wantOutflow: "1200",
		},
		{
			name:        "withdrawal on inflow-only account still counts as outflow",
			txns:        []model.Transaction{txn("checking", "-800")},
			flags:       map[string]service.CategoryFlags{"checking": {Inflow: true}},
			wantInflow:  "0",
			wantOutflow: "800",
		},
		{
			name:        "deposit on outflow-only account counts as neither",
			txns:        []model.Transaction{txn("credit", "250")},
			flags:       map[string]service.CategoryFlags{"credit": {Outflow: true}},
			wantInflow:  "0",
			wantOutflow: "0",
		},
		{
			name:        "uncategorized account contributes to neither total",
			txns:        []model.Transaction{txn("misc", "500"), txn("misc", "-500")},
			flags:       map[string]service.CategoryFlags{"misc": {}},
			wantInflow:  "0",
			wantOutflow: "0",
		},
		{
			name:        "account missing from flags map is ignored",
			txns:        []model.Transaction{txn("unknown", "999")},
			flags:       map[string]service.CategoryFlags{},
			wantInflow:  "0",
			wantOutflow: "0",
		},
		{
			name: "mixed batch accumulates per bucket",
			txns: []model.Transaction{
				txn("checking", "3000"),
				txn("checking", "-1200"),
				txn("credit", "-150"),
				txn("misc", "400"),
			},
			flags: map[string]service.CategoryFlags{
				"checking": {Inflow: true},
				"credit":   {Outflow: true},
				"misc":     {},
			},
			wantInflow:  "3000",
			wantOutflow: "1350",
		},
		{
			name: "rounding applies to the accumulated sum",
			txns: []model.Transaction{
				txn("checking", "0.333"),
				txn("checking", "0.333"),
				txn("checking", "0.339"),
			},
			flags:       map[string]service.CategoryFlags{"checking": {Inflow: true}},
			wantInflow:  "1.01",
			wantOutflow: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ClassifyCashflow(tt.txns, tt.flags)
			assert.True(t, got.TotalInflow.Equal(decimal.RequireFromString(tt.wantInflow)),
				"inflow = %s, want %s", got.TotalInflow, tt.wantInflow)
			assert.True(t, got.TotalOutflow.Equal(decimal.RequireFromString(tt.wantOutflow)),
				"outflow = %s, want %s", got.TotalOutflow, tt.wantOutflow)
		})
	}
}

func TestClassifyCashflow_EmptyInput(t *testing.T) {
	got := service.ClassifyCashflow(nil, nil)
	assert.True(t, got.TotalInflow.IsZero())
	assert.True(t, got.TotalOutflow.IsZero())
}
