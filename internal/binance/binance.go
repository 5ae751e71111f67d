package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strings"
	"time"

	"app/internal/logger"
	"app/internal/model"
	"app/internal/signer"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

// Базовый адрес тестнета USDT-M фьючерсов.
const TestnetBaseURL = "https://testnet.binancefuture.com"

const (
	accountEndpoint      = "/fapi/v2/account"
	exchangeInfoEndpoint = "/fapi/v1/exchangeInfo"
	tickerPriceEndpoint  = "/fapi/v1/ticker/price"
	orderEndpoint        = "/fapi/v1/order"
)

// BinanceManager выполняет все вызовы к бирже: подписанные и публичные
// идут через один http.Client и одну схему разбора ошибок.
type BinanceManager struct {
	baseURL    string
	apiKey     string
	secretKey  string
	httpClient *http.Client
	log        logger.Logger
}

type loggingRoundTripper struct {
	next http.RoundTripper
	log  logger.Logger
}

func NewBinanceManager(baseURL, apiKey, secretKey string, log logger.Logger) *BinanceManager {

	httpClient := &http.Client{
		Timeout: time.Second * 10,
		Transport: &loggingRoundTripper{
			next: http.DefaultTransport,
			log:  log,
		},
	}

	return &BinanceManager{
		baseURL:    baseURL,
		apiKey:     apiKey,
		secretKey:  secretKey,
		httpClient: httpClient,
		log:        log,
	}
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// Секрет в запрос не попадает, только подпись, дамп безопасен.
	reqBody, _ := httputil.DumpRequestOut(req, false)
	l.log.Debug("Отправка запроса:\n", string(reqBody), "\n")

	resp, err := l.next.RoundTrip(req)
	if err != nil {
		l.log.Debug("Ошибка при отправке запроса: ", err)
		return resp, err
	}

	return resp, err
}

// do выполняет запрос и читает тело. Сетевые ошибки заворачиваются
// в TransportError, дальше решает вызывающий по статусу.
func (bm *BinanceManager) do(req *http.Request) (int, []byte, error) {
	resp, err := bm.httpClient.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &TransportError{Err: err}
	}
	return resp.StatusCode, body, nil
}

// apiError разбирает тело ошибки биржи формата {"code":-1121,"msg":"..."}.
func apiError(status int, body []byte) error {
	var payload struct {
		Code int64  `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Msg == "" {
		return &APIError{StatusCode: status, Message: strings.TrimSpace(string(body))}
	}
	return &APIError{StatusCode: status, Code: payload.Code, Message: payload.Msg}
}

// signedQuery собирает строку запроса с меткой времени и подписью.
// Метка времени генерируется в момент вызова, биржа отбрасывает
// устаревшие запросы.
func (bm *BinanceManager) signedQuery(params *signer.Params) string {
	params.Add("timestamp", fmt.Sprintf("%d", time.Now().UnixMilli()))
	signature := signer.Sign(bm.secretKey, params)
	return params.Encode() + "&signature=" + signature
}

// TestConnection проверяет ключи подписанным запросом к аккаунту.
// Никогда не возвращает ошибку, только да/нет.
func (bm *BinanceManager) TestConnection(ctx context.Context) bool {
	bm.log.Info("Проверка подключения к API")

	query := bm.signedQuery(signer.NewParams())
	url := bm.baseURL + accountEndpoint + "?" + query

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		bm.log.Error("Ошибка при создании запроса: ", err)
		return false
	}
	req.Header.Set("X-MBX-APIKEY", bm.apiKey)

	status, body, err := bm.do(req)
	if err != nil {
		bm.log.Error("Ошибка при проверке подключения: ", err)
		return false
	}

	if status != http.StatusOK {
		bm.log.Error("Проверка подключения не прошла: ", status, " - ", string(body))
		return false
	}

	bm.log.Info("Подключение успешно")
	return true
}

// GetSymbolInfo ищет инструмент в списке биржи.
// (nil, nil) — инструмент не найден; ошибка — проблема транспорта или разбора.
func (bm *BinanceManager) GetSymbolInfo(ctx context.Context, symbol string) (*model.SymbolInfo, error) {
	bm.log.Debug("Запрос информации об инструменте ", symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, bm.baseURL+exchangeInfoEndpoint, nil)
	if err != nil {
		return nil, &UnexpectedError{Err: err}
	}

	status, body, err := bm.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(status, body)
	}

	var info struct {
		Symbols []model.SymbolInfo `json:"symbols"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, &UnexpectedError{Err: fmt.Errorf("разбор exchangeInfo: %w", err)}
	}

	for i := range info.Symbols {
		if info.Symbols[i].Symbol == symbol {
			return &info.Symbols[i], nil
		}
	}

	bm.log.Warn("Инструмент ", symbol, " не найден в exchangeInfo")
	return nil, nil
}

// GetCurrentPrice возвращает текущую цену инструмента.
func (bm *BinanceManager) GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	url := bm.baseURL + tickerPriceEndpoint + "?" + signer.NewParams().Add("symbol", symbol).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, &UnexpectedError{Err: err}
	}

	status, body, err := bm.do(req)
	if err != nil {
		return decimal.Zero, err
	}
	if status != http.StatusOK {
		return decimal.Zero, apiError(status, body)
	}

	var ticker struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(body, &ticker); err != nil {
		return decimal.Zero, &UnexpectedError{Err: fmt.Errorf("разбор тикера: %w", err)}
	}

	price, err := decimal.NewFromString(ticker.Price)
	if err != nil {
		return decimal.Zero, &UnexpectedError{Err: fmt.Errorf("разбор цены %q: %w", ticker.Price, err)}
	}

	bm.log.Debug("Текущая цена ", symbol, ": ", price)
	return price, nil
}

// PlaceOrder отправляет подписанный POST на создание ордера.
// Порядок параметров фиксирован, подпись считается по нему.
func (bm *BinanceManager) PlaceOrder(ctx context.Context, order model.OrderRequest) (*model.OrderResult, error) {
	params := signer.NewParams().
		Add("symbol", order.Symbol).
		Add("side", string(order.Side)).
		Add("type", string(order.Type))

	params.Add("quantity", order.Quantity.String())

	if order.Type == futures.OrderTypeLimit {
		params.Add("price", order.Price.String())
		params.Add("timeInForce", string(futures.TimeInForceTypeGTC))
	}

	bm.log.Infow("Размещение ордера",
		"symbol", order.Symbol,
		"side", order.Side,
		"type", order.Type,
		"quantity", order.Quantity.String(),
	)

	url := bm.baseURL + orderEndpoint + "?" + bm.signedQuery(params)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, &UnexpectedError{Err: err}
	}
	req.Header.Set("X-MBX-APIKEY", bm.apiKey)

	status, body, err := bm.do(req)
	if err != nil {
		bm.log.Errorw("Ошибка транспорта при размещении ордера", "error", err)
		return nil, err
	}

	if status < 200 || status >= 300 {
		apiErr := apiError(status, body)
		bm.log.Errorw("Биржа отклонила ордер", "status", status, "error", apiErr)
		return nil, apiErr
	}

	var result model.OrderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &UnexpectedError{Err: fmt.Errorf("разбор ответа на ордер: %w", err)}
	}

	bm.log.Infow("Ордер размещен", "orderId", result.OrderID, "status", result.Status)
	return &result, nil
}
