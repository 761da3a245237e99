package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"papertrade/pkg/common"
	"papertrade/pkg/datasource/synthetic"
	"papertrade/pkg/exchange/paper"
	"papertrade/pkg/tools/risk"
	"papertrade/pkg/utility"
	"papertrade/pkg/utility/fixed"
)

const (
	defaultHistoryBars = 180
	maxHistoryBars     = 1000
	maxPrefBytes       = 64 << 10
)

type placeOrderPayload struct {
	Symbol         string           `json:"symbol"`
	Side           common.OrderSide `json:"side"`
	Type           common.OrderType `json:"type"`
	Lots           fixed.Point      `json:"lots"`
	LimitPrice     fixed.Point      `json:"limit_price"`
	StopLossPips   fixed.Point      `json:"sl_pips"`
	TakeProfitPips fixed.Point      `json:"tp_pips"`
	Comment        string           `json:"comment"`
}

type orderResult struct {
	Ok     bool          `json:"ok"`
	Order  *common.Order `json:"order,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

type riskReport struct {
	Snapshot   risk.Snapshot   `json:"snapshot"`
	Assessment risk.Assessment `json:"assessment"`
}

func (s *Server) handleSymbols(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.symbols.All())
}

func (s *Server) handleCandles(w http.ResponseWriter, r *http.Request) {
	info, err := s.symbols.Get(mux.Vars(r)["symbol"])
	if err != nil {
		respondError(w, http.StatusNotFound, "unknown symbol")
		return
	}

	bars := queryInt(r, "bars", defaultHistoryBars)
	if bars < 1 || bars > maxHistoryBars {
		respondError(w, http.StatusBadRequest, "bars must be between 1 and 1000")
		return
	}

	candles := synthetic.GenerateHistory(info, bars, s.options.BarPeriod, time.Now())
	respondJSON(w, http.StatusOK, candles)
}

func (s *Server) handleDepth(w http.ResponseWriter, r *http.Request) {
	info, err := s.symbols.Get(mux.Vars(r)["symbol"])
	if err != nil {
		respondError(w, http.StatusNotFound, "unknown symbol")
		return
	}

	mid := info.BasePrice
	if tick, ok := s.engine.LastTick(info.SymbolName); ok {
		mid = tick.Mid()
	}

	levels := queryInt(r, "levels", s.options.DepthLevels)
	depth := synthetic.GenerateDepth(info, mid, levels, s.options.DepthBucket, time.Now())
	respondJSON(w, http.StatusOK, depth)
}

func (s *Server) handleListOrders(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.Orders())
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var payload placeOrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := s.engine.PlaceOrder(paper.OrderRequest{
		Symbol:         payload.Symbol,
		Side:           payload.Side,
		Type:           payload.Type,
		Lots:           payload.Lots,
		LimitPrice:     payload.LimitPrice,
		StopLossPips:   payload.StopLossPips,
		TakeProfitPips: payload.TakeProfitPips,
		Comment:        payload.Comment,
	})
	if err != nil {
		var rejection *paper.RejectionError
		if errors.As(err, &rejection) {
			respondJSON(w, http.StatusUnprocessableEntity, orderResult{Reason: rejection.Reason})
			return
		}
		s.logger.Error("place order failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusCreated, orderResult{Ok: true, Order: &order})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	s.engine.CancelOrder(id)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleListPositions(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.Positions())
}

func (s *Server) handleClosePosition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(w, r)
	if !ok {
		return
	}
	s.engine.ClosePosition(id)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.Events())
}

func (s *Server) handleAccount(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.Account())
}

func (s *Server) handleRisk(w http.ResponseWriter, _ *http.Request) {
	snapshot := risk.BuildSnapshot(s.engine.Account(), s.options.RiskLimits)
	respondJSON(w, http.StatusOK, riskReport{
		Snapshot:   snapshot,
		Assessment: risk.Evaluate(snapshot),
	})
}

func (s *Server) handleGetPref(w http.ResponseWriter, r *http.Request) {
	value, ok := s.prefs.Get(mux.Vars(r)["key"])
	if !ok {
		respondError(w, http.StatusNotFound, "preference not set")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(value)
}

func (s *Server) handlePutPref(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPrefBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "unable to read body")
		return
	}
	if !json.Valid(body) {
		respondError(w, http.StatusBadRequest, "value must be valid JSON")
		return
	}

	s.prefs.Put(mux.Vars(r)["key"], body)
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDeletePref(w http.ResponseWriter, r *http.Request) {
	s.prefs.Delete(mux.Vars(r)["key"])
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathId(w http.ResponseWriter, r *http.Request) (utility.TraceID, bool) {
	raw, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return utility.TraceID(raw), true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
