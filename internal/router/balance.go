package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"virtual-pet/internal/middleware"
	"virtual-pet/internal/ports/ledger"
)

type balanceResponse struct {
	Holder  string `json:"holder"`
	Asset   string `json:"asset"`
	Balance uint64 `json:"balance"`
}

// balanceHandler godoc
// @Summary Ver mi saldo en el ledger
// @Tags ledger
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param asset query string false "Código de activo (default PETCOIN, o ITEM-<id>)"
// @Success 200 {object} balanceResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "ledger failure"
// @Router /me/balance [get]
func balanceHandler(br ledger.BalanceReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		asset := strings.TrimSpace(r.URL.Query().Get("asset"))
		if asset == "" {
			asset = ledger.AssetPetCoin
		}

		acc := ledger.Account{Holder: claims.UserID, Asset: asset}
		bal, err := br.BalanceOf(r.Context(), acc)
		if err != nil {
			if errors.Is(err, ledger.ErrInvalidAccount) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "ledger failure", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(balanceResponse{Holder: acc.Holder, Asset: acc.Asset, Balance: bal})
	}
}
