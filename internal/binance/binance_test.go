package binance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"app/internal/logger"
	"app/internal/model"
	"app/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, handler http.Handler) (*BinanceManager, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	bm := NewBinanceManager(srv.URL, "test-key", "test-secret", logger.NewConsoleLogger())
	return bm, srv.Close
}

func TestTestConnection_OK(t *testing.T) {
	var gotAPIKey string
	var gotQuery url.Values

	bm, closeFn := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("X-MBX-APIKEY")
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"assets":[]}`))
	}))
	defer closeFn()

	if !bm.TestConnection(context.Background()) {
		t.Fatal("TestConnection() = false, want true")
	}

	if gotAPIKey != "test-key" {
		t.Errorf("X-MBX-APIKEY = %q, want %q", gotAPIKey, "test-key")
	}
	if gotQuery.Get("timestamp") == "" {
		t.Error("signed request is missing timestamp")
	}
	if len(gotQuery.Get("signature")) != 64 {
		t.Errorf("signature = %q, want 64 hex chars", gotQuery.Get("signature"))
	}
}

func TestTestConnection_Unauthorized(t *testing.T) {
	bm, closeFn := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":-2015,"msg":"Invalid API-key."}`))
	}))
	defer closeFn()

	if bm.TestConnection(context.Background()) {
		t.Error("TestConnection() = true on 401, want false")
	}
}

func TestTestConnection_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // адрес уже мертв

	bm := NewBinanceManager(srv.URL, "k", "s", logger.NewConsoleLogger())
	if bm.TestConnection(context.Background()) {
		t.Error("TestConnection() = true on connection refused, want false")
	}
}

const exchangeInfoBody = `{"symbols":[
	{"symbol":"BTCUSDT","status":"TRADING","filters":[{"filterType":"LOT_SIZE","minQty":"0.001","stepSize":"0.001"}]},
	{"symbol":"ETHUSDT","status":"BREAK","filters":[]}
]}`

func TestGetSymbolInfo_Found(t *testing.T) {
	bm, closeFn := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(exchangeInfoBody))
	}))
	defer closeFn()

	info, err := bm.GetSymbolInfo(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.NotNil(t, info)
	require.Equal(t, "BTCUSDT", info.Symbol)
	require.Equal(t, model.SymbolStatusTrading, info.Status)
	require.Len(t, info.Filters, 1)
}

func TestGetSymbolInfo_NotFound(t *testing.T) {
	bm, closeFn := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(exchangeInfoBody))
	}))
	defer closeFn()

	info, err := bm.GetSymbolInfo(context.Background(), "DOGEUSDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info != nil {
		t.Errorf("info = %+v, want nil for unknown symbol", info)
	}
}

// Транспортная ошибка не маскируется под "инструмент не найден".
func TestGetSymbolInfo_TransportErrorDistinct(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	bm := NewBinanceManager(srv.URL, "k", "s", logger.NewConsoleLogger())
	_, err := bm.GetSymbolInfo(context.Background(), "BTCUSDT")

	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("error type = %T (%v), want *TransportError", err, err)
	}
}

func TestGetCurrentPrice(t *testing.T) {
	bm, closeFn := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") != "BTCUSDT" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
			return
		}
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"43750.10"}`))
	}))
	defer closeFn()

	price, err := bm.GetCurrentPrice(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.True(t, price.Equal(decimal.RequireFromString("43750.10")),
		"price = %s, want 43750.10", price)

	_, err = bm.GetCurrentPrice(context.Background(), "NOPEUSDT")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestPlaceOrder_MarketShape(t *testing.T) {
	var gotMethod string
	var gotQuery url.Values

	bm, closeFn := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"orderId":123456,"clientOrderId":"abc","symbol":"BTCUSDT","status":"FILLED",
			"type":"MARKET","side":"BUY","price":"0","origQty":"0.01","executedQty":"0.01",
			"avgPrice":"43750.10","timeInForce":"GTC","updateTime":1700000000000}`))
	}))
	defer closeFn()

	req, err := validator.ValidateOrderParams("BTCUSDT", "BUY", "MARKET", "0.01", "")
	require.NoError(t, err)

	result, err := bm.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	for key, want := range map[string]string{
		"symbol":   "BTCUSDT",
		"side":     "BUY",
		"type":     "MARKET",
		"quantity": "0.01",
	} {
		if got := gotQuery.Get(key); got != want {
			t.Errorf("query %s = %q, want %q", key, got, want)
		}
	}
	if gotQuery.Has("price") || gotQuery.Has("timeInForce") {
		t.Error("market order must not carry price or timeInForce")
	}
	if gotQuery.Get("timestamp") == "" || gotQuery.Get("signature") == "" {
		t.Error("order request must be signed and timestamped")
	}

	require.Equal(t, int64(123456), result.OrderID)
	require.Equal(t, "FILLED", result.Status)
}

func TestPlaceOrder_LimitShape(t *testing.T) {
	var gotQuery url.Values

	bm, closeFn := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"orderId":777,"symbol":"ETHUSDT","status":"NEW","type":"LIMIT","side":"SELL",
			"price":"2500.5","origQty":"0.01","executedQty":"0","timeInForce":"GTC","updateTime":1}`))
	}))
	defer closeFn()

	req, err := validator.ValidateOrderParams("ETHUSDT", "SELL", "LIMIT", "0.01", "2500.5")
	require.NoError(t, err)

	_, err = bm.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	if gotQuery.Get("price") != "2500.5" {
		t.Errorf("price = %q, want 2500.5", gotQuery.Get("price"))
	}
	if gotQuery.Get("timeInForce") != "GTC" {
		t.Errorf("timeInForce = %q, want GTC", gotQuery.Get("timeInForce"))
	}
}

// HTTP 400 с телом кода биржи должен стать APIError, не UnexpectedError.
func TestPlaceOrder_APIErrorMapping(t *testing.T) {
	bm, closeFn := newTestManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer closeFn()

	req, err := validator.ValidateOrderParams("XXXUSDT", "BUY", "MARKET", "1", "")
	require.NoError(t, err)

	_, err = bm.PlaceOrder(context.Background(), req)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T (%v), want *APIError", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apiErr.StatusCode)
	}
	if apiErr.Code != -1121 {
		t.Errorf("code = %d, want -1121", apiErr.Code)
	}
	if apiErr.Message != "Invalid symbol." {
		t.Errorf("message = %q, want %q", apiErr.Message, "Invalid symbol.")
	}
}

func TestPlaceOrder_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	bm := NewBinanceManager(srv.URL, "k", "s", logger.NewConsoleLogger())
	req, err := validator.ValidateOrderParams("BTCUSDT", "BUY", "MARKET", "1", "")
	require.NoError(t, err)

	_, err = bm.PlaceOrder(context.Background(), req)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("error type = %T (%v), want *TransportError", err, err)
	}
}
