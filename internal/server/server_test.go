package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"papertrade/internal/prefs"
	"papertrade/pkg/common"
	"papertrade/pkg/exchange"
	"papertrade/pkg/exchange/paper"
	"papertrade/pkg/tools/risk"
	"papertrade/pkg/utility/fixed"
)

func newTestServer(t *testing.T) (*Server, *paper.Engine) {
	t.Helper()

	symbols := exchange.CreateDefaultSymbolStore()
	engine := paper.NewEngine(symbols)
	store := prefs.Open(filepath.Join(t.TempDir(), "prefs.json"))

	s := New(zap.NewNop(), engine, symbols, store, Options{
		Addr:        ":0",
		BarPeriod:   time.Minute,
		DepthLevels: 10,
		DepthBucket: 5 * time.Second,
		RiskLimits:  risk.DefaultLimits(),
	})
	return s, engine
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func feedTick(engine *paper.Engine, symbol string, bid, ask float64) {
	b := fixed.FromFloat64(bid)
	a := fixed.FromFloat64(ask)
	engine.OnTick(context.Background(), common.Tick{
		Symbol:    symbol,
		Last:      b.Add(a).Div(fixed.Two),
		Bid:       b,
		Ask:       a,
		TimeStamp: time.Now(),
	})
}

func TestServer_Symbols(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/symbols", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var symbols []exchange.SymbolInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &symbols))
	assert.Len(t, symbols, 4)
}

func TestServer_Candles(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/candles/EURUSD?bars=25", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var candles []common.Candle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &candles))
	assert.Len(t, candles, 25)

	assert.Equal(t, http.StatusNotFound, doRequest(s, http.MethodGet, "/api/v1/candles/BTCUSD", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(s, http.MethodGet, "/api/v1/candles/EURUSD?bars=5000", "").Code)
}

func TestServer_Depth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/depth/EURUSD", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var depth common.Depth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &depth))
	assert.Len(t, depth.Asks, 10)
	assert.Len(t, depth.Bids, 10)
}

func TestServer_PlaceOrder_RejectionCarriesReason(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/api/v1/orders",
		`{"symbol":"XAUUSD","side":"BUY","type":"LIMIT","lots":"0.1"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var result orderResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Ok)
	assert.Equal(t, "Limit price is required", result.Reason)
	assert.Nil(t, result.Order)
}

func TestServer_PlaceOrder_MarketFill(t *testing.T) {
	s, engine := newTestServer(t)
	feedTick(engine, "EURUSD", 1.1000, 1.1002)

	rec := doRequest(s, http.MethodPost, "/api/v1/orders",
		`{"symbol":"EURUSD","side":"BUY","type":"MARKET","lots":"1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var result orderResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.True(t, result.Ok)
	require.NotNil(t, result.Order)
	assert.Equal(t, common.OrderStatusFilled, result.Order.Status)

	positions := doRequest(s, http.MethodGet, "/api/v1/positions", "")
	var open []common.Position
	require.NoError(t, json.Unmarshal(positions.Body.Bytes(), &open))
	require.Len(t, open, 1)
	assert.Equal(t, "EURUSD", open[0].Symbol)
}

func TestServer_CancelAndClose(t *testing.T) {
	s, engine := newTestServer(t)
	feedTick(engine, "EURUSD", 1.1000, 1.1002)

	rec := doRequest(s, http.MethodPost, "/api/v1/orders",
		`{"symbol":"EURUSD","side":"BUY","type":"LIMIT","lots":"1","limit_price":"1.0950"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var result orderResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	cancel := doRequest(s, http.MethodPost,
		"/api/v1/orders/"+strconv.FormatUint(result.Order.Id, 10)+"/cancel", "")
	assert.Equal(t, http.StatusOK, cancel.Code)
	assert.Equal(t, common.OrderStatusCancelled, engine.Orders()[0].Status)

	assert.Equal(t, http.StatusBadRequest,
		doRequest(s, http.MethodPost, "/api/v1/orders/not-a-number/cancel", "").Code)
}

func TestServer_RiskReport(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/api/v1/risk", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var report riskReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, risk.StatusOk, report.Assessment.Status)
	assert.False(t, report.Assessment.Blocked)
}

func TestServer_Prefs(t *testing.T) {
	s, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, doRequest(s, http.MethodGet, "/api/v1/prefs/favorites", "").Code)

	put := doRequest(s, http.MethodPut, "/api/v1/prefs/favorites", `["EURUSD"]`)
	require.Equal(t, http.StatusOK, put.Code)

	got := doRequest(s, http.MethodGet, "/api/v1/prefs/favorites", "")
	require.Equal(t, http.StatusOK, got.Code)
	assert.JSONEq(t, `["EURUSD"]`, got.Body.String())

	assert.Equal(t, http.StatusBadRequest,
		doRequest(s, http.MethodPut, "/api/v1/prefs/favorites", `{broken`).Code)

	del := doRequest(s, http.MethodDelete, "/api/v1/prefs/favorites", "")
	require.Equal(t, http.StatusOK, del.Code)
	assert.Equal(t, http.StatusNotFound, doRequest(s, http.MethodGet, "/api/v1/prefs/favorites", "").Code)
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
