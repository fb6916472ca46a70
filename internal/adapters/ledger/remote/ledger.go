// Package remote habla con un servicio de ledger externo por HTTP/JSON.
//
//	POST /v1/mint                      {"holder","asset","amount"}
//	POST /v1/burn                      {"holder","asset","amount"}
//	GET  /v1/balances/{holder}/{asset} -> {"balance"}
//
// amount y balance viajan como string decimal (uint64 completo).
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"virtual-pet/internal/platform/httpclient"
	"virtual-pet/internal/ports/ledger"

	"github.com/google/uuid"
)

type Ledger struct {
	client *httpclient.Client
	token  string
}

// New usa client.BaseURL como raíz del servicio. token es opcional.
func New(client *httpclient.Client, token string) (*Ledger, error) {
	if client == nil || strings.TrimSpace(client.BaseURL) == "" {
		return nil, errors.New("remote ledger: base url required")
	}
	return &Ledger{client: client, token: strings.TrimSpace(token)}, nil
}

type opRequest struct {
	Holder string `json:"holder"`
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

type balanceResponse struct {
	Balance string `json:"balance"`
}

func (l *Ledger) MintTo(ctx context.Context, dst ledger.Account, amount uint64) error {
	return l.op(ctx, "/v1/mint", dst, amount)
}

func (l *Ledger) Burn(ctx context.Context, src ledger.Account, amount uint64) error {
	return l.op(ctx, "/v1/burn", src, amount)
}

func (l *Ledger) BalanceOf(ctx context.Context, acc ledger.Account) (uint64, error) {
	if !acc.Valid() {
		return 0, ledger.ErrInvalidAccount
	}
	var out balanceResponse
	path := "/v1/balances/" + url.PathEscape(acc.Holder) + "/" + url.PathEscape(acc.Asset)
	if err := l.client.DoJSON(ctx, http.MethodGet, path, l.headers(""), nil, &out); err != nil {
		return 0, mapError(err)
	}
	v, err := strconv.ParseUint(strings.TrimSpace(out.Balance), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("remote ledger: invalid balance %q: %w", out.Balance, err)
	}
	return v, nil
}

func (l *Ledger) op(ctx context.Context, path string, acc ledger.Account, amount uint64) error {
	if !acc.Valid() {
		return ledger.ErrInvalidAccount
	}
	if amount == 0 {
		return ledger.ErrInvalidAmount
	}
	in := opRequest{
		Holder: acc.Holder,
		Asset:  acc.Asset,
		Amount: strconv.FormatUint(amount, 10),
	}
	// una clave por llamada: un reintento del transporte no duplica el op
	if err := l.client.DoJSON(ctx, http.MethodPost, path, l.headers(uuid.NewString()), in, nil); err != nil {
		return mapError(err)
	}
	return nil
}

func (l *Ledger) headers(idempotencyKey string) map[string]string {
	h := map[string]string{}
	if l.token != "" {
		h["Authorization"] = "Bearer " + l.token
	}
	if idempotencyKey != "" {
		h["Idempotency-Key"] = idempotencyKey
	}
	return h
}

func mapError(err error) error {
	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		switch he.StatusCode {
		case http.StatusConflict, http.StatusPaymentRequired:
			return fmt.Errorf("%w: %s", ledger.ErrInsufficientBalance, he.Body)
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return fmt.Errorf("%w: %s", ledger.ErrInvalidAmount, he.Body)
		}
	}
	return err
}
