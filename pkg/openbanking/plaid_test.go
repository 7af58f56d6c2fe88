package openbanking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *PlaidHTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewPlaidHTTPClient(PlaidConfig{
		ClientID: "client",
		Secret:   "secret",
		BaseURL:  srv.URL,
	}, srv.Client())
}

func TestGetBalances_DecodesNumericBalances(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/balance/get", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "token-1", body["access_token"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"accounts": [
				{"account_id": "acc-1", "name": "Checking", "type": "depository", "subtype": "checking", "mask": "0000",
				 "balances": {"current": 1100.55, "available": 1000}},
				{"account_id": "acc-2", "name": "Pending CD", "type": "depository",
				 "balances": {"current": null}}
			],
			"item": {"institution_name": "First National"}
		}`))
	})

	accounts, err := client.GetBalances(context.Background(), "token-1")
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	require.NotNil(t, accounts[0].CurrentBalance)
	assert.True(t, accounts[0].CurrentBalance.Equal(decimal.RequireFromString("1100.55")))
	assert.Equal(t, "First National", accounts[0].InstitutionName)

	assert.Nil(t, accounts[1].CurrentBalance, "null balance must stay nil, not become zero")
}

func TestGetTransactionsPage_SendsWindowAndOffset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/get", r.URL.Path)

		var body struct {
			StartDate string `json:"start_date"`
			EndDate   string `json:"end_date"`
			Options   struct {
				Count  int `json:"count"`
				Offset int `json:"offset"`
			} `json:"options"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2023-03-01", body.StartDate)
		assert.Equal(t, "2023-03-15", body.EndDate)
		assert.Equal(t, MaxPageSize, body.Options.Count)
		assert.Equal(t, 500, body.Options.Offset)

		w.Write([]byte(`{
			"transactions": [
				{"transaction_id": "t-1", "account_id": "acc-1", "amount": 12.50, "date": "2023-03-02", "name": "Coffee"}
			],
			"total_transactions": 501
		}`))
	})

	start := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	page, err := client.GetTransactionsPage(context.Background(), "token-1", start, end, MaxPageSize, 500)
	require.NoError(t, err)

	assert.Equal(t, 501, page.Total)
	require.Len(t, page.Transactions, 1)
	assert.Equal(t, "t-1", page.Transactions[0].TransactionID)
	assert.True(t, page.Transactions[0].Amount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC), page.Transactions[0].Date)
}

func TestPost_MapsProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{
			"error_code": "ITEM_LOGIN_REQUIRED",
			"error_type": "ITEM_ERROR",
			"error_message": "the login details of this item have changed",
			"request_id": "req-1"
		}`))
	})

	_, err := client.GetBalances(context.Background(), "token-1")
	require.Error(t, err)
	assert.True(t, IsReauthRequired(err))

	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, CodeItemLoginRequired, pe.Code)
	assert.Equal(t, "ITEM_ERROR", pe.Type)
}

func TestPost_UnparseableErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream exploded`))
	})

	_, err := client.GetBalances(context.Background(), "token-1")
	require.Error(t, err)
	assert.False(t, IsReauthRequired(err))
	assert.Contains(t, err.Error(), "unexpected status 502")
}

func TestIsReauthRequired_OtherCodes(t *testing.T) {
	err := &Error{Code: "RATE_LIMIT_EXCEEDED", Type: "RATE_LIMIT_ERROR", Message: "slow down"}
	assert.False(t, IsReauthRequired(err))
	assert.False(t, IsReauthRequired(nil))
}
