package orders

import (
	"context"
	"fmt"

	"app/internal/logger"
	"app/internal/model"
	"app/internal/validator"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

// Connector — все, что оркестратору нужно от биржи.
type Connector interface {
	TestConnection(ctx context.Context) bool
	GetSymbolInfo(ctx context.Context, symbol string) (*model.SymbolInfo, error)
	GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	PlaceOrder(ctx context.Context, order model.OrderRequest) (*model.OrderResult, error)
}

// TradabilityError — инструмент не найден или биржа его сейчас не торгует.
type TradabilityError struct {
	Symbol string
	Reason string
}

func (e *TradabilityError) Error() string {
	return fmt.Sprintf("symbol %s: %s", e.Symbol, e.Reason)
}

// Заглушка для отсутствующих строковых полей в ответе биржи.
const absentField = "N/A"

// OrderManager прогоняет ордер по конвейеру:
// валидация -> проверка торгуемости -> отправка -> нормализация.
// Без повторов, без подтверждений, без кеширования.
type OrderManager struct {
	connector Connector
	log       logger.Logger
}

func NewOrderManager(connector Connector, log logger.Logger) *OrderManager {
	return &OrderManager{
		connector: connector,
		log:       log,
	}
}

// PlaceOrder проверяет и размещает один ордер. Любая ошибка
// возвращается вызывающему как есть, без повторных попыток.
func (om *OrderManager) PlaceOrder(ctx context.Context, raw model.RawOrder) (*model.OrderResult, error) {
	om.log.Info("Валидация параметров ордера")
	order, err := validator.ValidateOrderParams(raw.Symbol, raw.Side, raw.Type, raw.Quantity, raw.Price)
	if err != nil {
		return nil, err
	}

	om.log.Infow("Параметры ордера проверены",
		"symbol", order.Symbol,
		"side", order.Side,
		"type", order.Type,
		"quantity", order.Quantity.String(),
	)

	// Свежая проверка торгуемости перед каждым ордером, без кеша.
	info, err := om.connector.GetSymbolInfo(ctx, order.Symbol)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, &TradabilityError{Symbol: order.Symbol, Reason: "symbol not found"}
	}
	if info.Status != model.SymbolStatusTrading {
		return nil, &TradabilityError{
			Symbol: order.Symbol,
			Reason: fmt.Sprintf("symbol is not currently trading (status %s)", info.Status),
		}
	}

	if order.Type == futures.OrderTypeMarket {
		om.log.Infow("Отправка MARKET ордера",
			"symbol", order.Symbol, "side", order.Side, "quantity", order.Quantity.String())
	} else {
		om.log.Infow("Отправка LIMIT ордера",
			"symbol", order.Symbol, "side", order.Side,
			"quantity", order.Quantity.String(), "price", order.Price.String())
	}

	result, err := om.connector.PlaceOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	normalize(result)

	om.log.Infow("Ответ биржи",
		"orderId", result.OrderID,
		"clientOrderId", result.ClientOrderID,
		"status", result.Status,
		"executedQty", result.ExecutedQty,
	)

	return result, nil
}

// TestConnection пробрасывает проверку подключения коннектора.
func (om *OrderManager) TestConnection(ctx context.Context) bool {
	return om.connector.TestConnection(ctx)
}

// normalize подставляет заглушку вместо пустых строковых полей,
// биржа не всегда присылает полный набор.
func normalize(r *model.OrderResult) {
	for _, field := range []*string{
		&r.ClientOrderID, &r.Symbol, &r.Status, &r.Type, &r.Side,
		&r.Price, &r.OrigQty, &r.ExecutedQty, &r.AvgPrice, &r.TimeInForce,
	} {
		if *field == "" {
			*field = absentField
		}
	}
}
