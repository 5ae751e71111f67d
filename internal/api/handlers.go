package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/binance"
	"app/internal/model"
	"app/internal/orders"
	"app/internal/validator"

	"github.com/gorilla/mux"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.orders.TestConnection(r.Context()) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	symbol, err := validator.ValidateSymbol(mux.Vars(r)["symbol"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	price, err := s.prices.GetCurrentPrice(r.Context(), symbol)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"symbol": symbol,
		"price":  price.String(),
	})
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var raw model.RawOrder
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body", Kind: "validation"})
		return
	}

	result, err := s.orders.PlaceOrder(r.Context(), raw)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// writeError переводит таксономию ошибок конвейера в HTTP-статусы.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *validator.ValidationError
	var terr *orders.TradabilityError
	var apiErr *binance.APIError
	var transErr *binance.TransportError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Kind: "validation"})
	case errors.As(err, &terr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: terr.Error(), Kind: "tradability"})
	case errors.As(err, &apiErr):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: apiErr.Message, Kind: "exchange"})
	case errors.As(err, &transErr):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "exchange is unreachable", Kind: "transport"})
	default:
		s.log.Errorw("Необработанная ошибка в HTTP-слое", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: "unexpected"})
	}
}
