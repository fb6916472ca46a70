package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"virtual-pet/internal/domain/rules"
	"virtual-pet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", initializePetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))

		// Acciones de cuidado y economía (dueño)
		pr.Post("/{petID}/play", playHandler(svc))
		pr.Post("/{petID}/feed", feedHandler(svc))
		pr.Post("/{petID}/earn", earnCoinsHandler(svc))
	})
}

type petResponse struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Health          uint8     `json:"health"`
	Happiness       uint8     `json:"happiness"`
	CoinsEarned     uint64    `json:"coins_earned"`
	LastInteraction time.Time `json:"last_interaction"`
	LastCoinEarn    time.Time `json:"last_coin_earn"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type feedRequest struct {
	ItemID string `json:"item_id"`
}

type earnCoinsResponse struct {
	Pet   petResponse `json:"pet"`
	Coins uint64      `json:"coins"`
}

// initializePetHandler godoc
// @Summary Crear mascota
// @Description Crea una mascota para el usuario autenticado con health=100, happiness=100, coins_earned=0.
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 201 {object} petResponse
// @Failure 401 {string} string "unauthorized"
// @Router /pets [post]
func initializePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Initialize(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Success 200 {array} petResponse
// @Failure 401 {string} string "unauthorized"
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]petResponse, 0, len(list))
		for _, p := range list {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Ver una mascota
// @Description Cualquier usuario autenticado puede ver el estado (necesario para pedir el traspaso).
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// playHandler godoc
// @Summary Jugar con la mascota
// @Description +10 happiness (tope 100). Solo el dueño, una vez cada 3600 segundos.
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 403 {string} string "unauthorized actor"
// @Failure 404 {string} string "pet not found"
// @Failure 429 {string} string "rate limited"
// @Router /pets/{petID}/play [post]
func playHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.Play(r.Context(), chi.URLParam(r, "petID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// feedHandler godoc
// @Summary Alimentar a la mascota
// @Description Aplica los efectos del ítem (tope 100) y lo consume (burn de 1 unidad). El ítem debe ser del usuario y el usuario debe ser el dueño.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param payload body feedRequest true "Ítem a consumir"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid input"
// @Failure 403 {string} string "item ownership / unauthorized actor"
// @Failure 404 {string} string "pet or item not found"
// @Failure 502 {string} string "ledger failure"
// @Router /pets/{petID}/feed [post]
func feedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req feedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.ItemID) == "" {
			http.Error(w, "item_id required", http.StatusBadRequest)
			return
		}

		p, err := svc.Feed(r.Context(), chi.URLParam(r, "petID"), strings.TrimSpace(req.ItemID), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// earnCoinsHandler godoc
// @Summary Cobrar la recompensa diaria
// @Description Acuña floor((health+happiness)/20) PETCOIN al dueño. Una vez cada 86400 segundos.
// @Tags pets
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} earnCoinsResponse
// @Failure 403 {string} string "unauthorized actor"
// @Failure 429 {string} string "rate limited"
// @Failure 502 {string} string "ledger failure"
// @Router /pets/{petID}/earn [post]
func earnCoinsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, coins, err := svc.EarnCoins(r.Context(), chi.URLParam(r, "petID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, earnCoinsResponse{Pet: toPetResponse(p), Coins: coins})
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:              p.ID,
		OwnerID:         p.OwnerID,
		Health:          p.Health,
		Happiness:       p.Happiness,
		CoinsEarned:     p.CoinsEarned,
		LastInteraction: p.LastInteraction,
		LastCoinEarn:    p.LastCoinEarn,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// writeError traduce la taxonomía de errores del motor a HTTP.
func writeError(w http.ResponseWriter, err error) {
	var rl *rules.RateLimitError
	switch {
	case errors.As(err, &rl):
		w.Header().Set("Retry-After", strconv.Itoa(int(rl.RetryAfter.Seconds())))
		http.Error(w, err.Error(), http.StatusTooManyRequests)
	case errors.Is(err, rules.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, rules.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, rules.ErrUnauthorized), errors.Is(err, rules.ErrItemOwnership):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, rules.ErrInvalidState):
		http.Error(w, err.Error(), http.StatusConflict)
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
