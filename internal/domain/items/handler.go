package items

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"virtual-pet/internal/domain/rules"
	"virtual-pet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/items", func(ir chi.Router) {
		ir.Post("/", issueItemHandler(svc))
		ir.Get("/", listItemsHandler(svc))
		ir.Get("/{itemID}", getItemHandler(svc))
	})
}

type issueItemRequest struct {
	HealthEffect    uint8  `json:"health_effect"`
	HappinessEffect uint8  `json:"happiness_effect"`
	Price           uint64 `json:"price"`
}

type itemResponse struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Asset           string    `json:"asset"`
	HealthEffect    uint8     `json:"health_effect"`
	HappinessEffect uint8     `json:"happiness_effect"`
	Price           uint64    `json:"price"`
	CreatedAt       time.Time `json:"created_at"`
}

// issueItemHandler godoc
// @Summary Emitir un ítem consumible
// @Description Crea un ítem para el usuario autenticado. Si price > 0 se queman price PETCOIN de su cuenta. Se acuña una unidad del token del ítem.
// @Tags items
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body issueItemRequest true "Efectos (0-100) y precio"
// @Success 201 {object} itemResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 502 {string} string "ledger failure"
// @Router /items [post]
func issueItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req issueItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		it, err := svc.Issue(r.Context(), claims.UserID, IssueInput{
			HealthEffect:    req.HealthEffect,
			HappinessEffect: req.HappinessEffect,
			Price:           req.Price,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toItemResponse(it))
	}
}

// listItemsHandler godoc
// @Summary Listar mis ítems
// @Tags items
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Success 200 {array} itemResponse
// @Failure 401 {string} string "unauthorized"
// @Router /items [get]
func listItemsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		list, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]itemResponse, 0, len(list))
		for _, it := range list {
			out = append(out, toItemResponse(it))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getItemHandler godoc
// @Summary Ver un ítem propio
// @Tags items
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param itemID path string true "ID del ítem"
// @Success 200 {object} itemResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "item not found"
// @Router /items/{itemID} [get]
func getItemHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		it, err := svc.GetByID(r.Context(), chi.URLParam(r, "itemID"))
		if err != nil {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		if it.OwnerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		writeJSON(w, http.StatusOK, toItemResponse(it))
	}
}

func toItemResponse(it Item) itemResponse {
	return itemResponse{
		ID:              it.ID,
		OwnerID:         it.OwnerID,
		Asset:           it.Asset,
		HealthEffect:    it.HealthEffect,
		HappinessEffect: it.HappinessEffect,
		Price:           it.Price,
		CreatedAt:       it.CreatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rules.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, rules.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, rules.ErrLedger):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
