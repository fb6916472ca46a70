package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"virtual-pet/internal/platform/httpclient"
	"virtual-pet/internal/ports/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_MintSendsDecimalAmountAndKey(t *testing.T) {
	var got opRequest
	var key, auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/mint", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		key = r.Header.Get("Idempotency-Key")
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c, err := httpclient.NewWithBaseURL(srv.URL, time.Second)
	require.NoError(t, err)
	l, err := New(c, "secret")
	require.NoError(t, err)

	require.NoError(t, l.MintTo(context.Background(), ledger.Account{Holder: "u1", Asset: ledger.AssetPetCoin}, ^uint64(0)))
	require.Equal(t, "18446744073709551615", got.Amount)
	require.Equal(t, "u1", got.Holder)
	require.NotEmpty(t, key)
	require.Equal(t, "Bearer secret", auth)
}

func TestLedger_BurnConflict_MapsToInsufficientBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient funds", http.StatusConflict)
	}))
	defer srv.Close()

	c, err := httpclient.NewWithBaseURL(srv.URL, time.Second)
	require.NoError(t, err)
	l, err := New(c, "")
	require.NoError(t, err)

	err = l.Burn(context.Background(), ledger.Account{Holder: "u1", Asset: "ITEM-1"}, 1)
	require.True(t, errors.Is(err, ledger.ErrInsufficientBalance))
}

func TestLedger_BalanceOf(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/balances/u1/PETCOIN", r.URL.Path)
		_ = json.NewEncoder(w).Encode(balanceResponse{Balance: "42"})
	}))
	defer srv.Close()

	c, err := httpclient.NewWithBaseURL(srv.URL, time.Second)
	require.NoError(t, err)
	l, err := New(c, "")
	require.NoError(t, err)

	bal, err := l.BalanceOf(context.Background(), ledger.Account{Holder: "u1", Asset: ledger.AssetPetCoin})
	require.NoError(t, err)
	require.Equal(t, uint64(42), bal)
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(httpclient.New(time.Second), "")
	require.Error(t, err)
}
