package ownership

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"virtual-pet/internal/domain/rules"
	"virtual-pet/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Quien quiere la mascota pide el traspaso
	r.Post("/pets/{petID}/ownership-requests", requestOwnershipHandler(svc))

	// Partes de la solicitud
	r.Route("/ownership-requests/{requestID}", func(or chi.Router) {
		or.Get("/", getRequestHandler(svc))
		or.Post("/respond", respondHandler(svc))
	})

	// Bandeja propia: direction=incoming|outgoing
	r.Get("/me/ownership-requests", listMyRequestsHandler(svc))
}

type respondRequest struct {
	Accept *bool `json:"accept"`
}

type requestResponse struct {
	ID         string     `json:"id"`
	PetID      string     `json:"pet_id"`
	FromUserID string     `json:"from_user_id"`
	ToUserID   string     `json:"to_user_id"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// requestOwnershipHandler godoc
// @Summary Pedir el traspaso de una mascota
// @Description Crea una solicitud Pending dirigida al dueño actual. Si ya hay una Pending del mismo usuario se devuelve esa.
// @Tags ownership
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Success 201 {object} requestResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/ownership-requests [post]
func requestOwnershipHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		req, err := svc.Request(r.Context(), chi.URLParam(r, "petID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toRequestResponse(req))
	}
}

// getRequestHandler godoc
// @Summary Ver una solicitud de traspaso
// @Tags ownership
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param requestID path string true "ID de la solicitud"
// @Success 200 {object} requestResponse
// @Failure 403 {string} string "unauthorized actor"
// @Failure 404 {string} string "not found"
// @Router /ownership-requests/{requestID} [get]
func getRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		req, err := svc.GetByID(r.Context(), chi.URLParam(r, "requestID"), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(req))
	}
}

// respondHandler godoc
// @Summary Responder una solicitud de traspaso
// @Description Solo el destinatario, solo si está Pending. accept=true traspasa la mascota.
// @Tags ownership
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param requestID path string true "ID de la solicitud"
// @Param payload body respondRequest true "Decisión"
// @Success 200 {object} requestResponse
// @Failure 400 {string} string "invalid input"
// @Failure 403 {string} string "unauthorized actor"
// @Failure 404 {string} string "not found"
// @Failure 409 {string} string "invalid state"
// @Router /ownership-requests/{requestID}/respond [post]
func respondHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body respondRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Accept == nil {
			http.Error(w, "accept required", http.StatusBadRequest)
			return
		}

		req, err := svc.Respond(r.Context(), chi.URLParam(r, "requestID"), claims.UserID, *body.Accept)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toRequestResponse(req))
	}
}

// listMyRequestsHandler godoc
// @Summary Listar mis solicitudes de traspaso
// @Tags ownership
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param direction query string false "incoming (default) | outgoing"
// @Param status query string false "Filtro CSV: pending,accepted,rejected"
// @Success 200 {array} requestResponse
// @Failure 400 {string} string "invalid direction or status"
// @Router /me/ownership-requests [get]
func listMyRequestsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// status=pending,accepted (CSV opcional)
		allowed, err := parseStatusFilter(r.URL.Query().Get("status"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var list []Request
		switch strings.TrimSpace(r.URL.Query().Get("direction")) {
		case "", "incoming":
			list, err = svc.ListIncoming(r.Context(), claims.UserID)
		case "outgoing":
			list, err = svc.ListOutgoing(r.Context(), claims.UserID)
		default:
			http.Error(w, "invalid direction", http.StatusBadRequest)
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}

		if allowed != nil {
			filtered := make([]Request, 0, len(list))
			for _, req := range list {
				if _, ok := allowed[req.Status]; ok {
					filtered = append(filtered, req)
				}
			}
			list = filtered
		}

		out := make([]requestResponse, 0, len(list))
		for _, req := range list {
			out = append(out, toRequestResponse(req))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toRequestResponse(r Request) requestResponse {
	return requestResponse{
		ID:         r.ID,
		PetID:      r.PetID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		ResolvedAt: r.ResolvedAt,
	}
}

// parseStatusFilter devuelve nil si no hay filtro; un estado desconocido es error.
func parseStatusFilter(raw string) (map[Status]struct{}, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	out := map[Status]struct{}{}
	for _, p := range strings.Split(raw, ",") {
		s := Status(strings.TrimSpace(p))
		if !s.Valid() {
			return nil, fmt.Errorf("invalid status %q", string(s))
		}
		out[s] = struct{}{}
	}
	return out, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rules.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, rules.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, rules.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, rules.ErrInvalidState):
		http.Error(w, err.Error(), http.StatusConflict)
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
