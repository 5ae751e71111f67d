package validator

import (
	"fmt"
	"strings"

	"app/internal/model"

	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

// Ошибка валидации входных параметров. До сети такой ордер не доходит.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ValidateSymbol нормализует и проверяет символ торговой пары.
func ValidateSymbol(symbol string) (string, error) {
	if symbol == "" {
		return "", newError("symbol", "symbol cannot be empty")
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if !strings.HasSuffix(symbol, "USDT") {
		return "", newError("symbol", "symbol must end with 'USDT' for USDT-M futures")
	}
	if len(symbol) < 5 {
		return "", newError("symbol", "symbol is too short")
	}

	return symbol, nil
}

// ValidateSide проверяет направление ордера.
func ValidateSide(side string) (futures.SideType, error) {
	side = strings.ToUpper(strings.TrimSpace(side))

	switch futures.SideType(side) {
	case futures.SideTypeBuy, futures.SideTypeSell:
		return futures.SideType(side), nil
	default:
		return "", newError("side", "side must be 'BUY' or 'SELL'")
	}
}

// ValidateOrderType проверяет тип ордера.
func ValidateOrderType(orderType string) (futures.OrderType, error) {
	orderType = strings.ToUpper(strings.TrimSpace(orderType))

	switch futures.OrderType(orderType) {
	case futures.OrderTypeMarket, futures.OrderTypeLimit:
		return futures.OrderType(orderType), nil
	default:
		return "", newError("type", "order type must be 'MARKET' or 'LIMIT'")
	}
}

// ValidateQuantity проверяет количество: конечное число строго больше нуля.
func ValidateQuantity(quantity string) (decimal.Decimal, error) {
	qty, err := decimal.NewFromString(strings.TrimSpace(quantity))
	if err != nil {
		return decimal.Zero, newError("quantity", "quantity must be a valid number")
	}
	if qty.Sign() <= 0 {
		return decimal.Zero, newError("quantity", "quantity must be greater than 0")
	}
	return qty, nil
}

// ValidatePrice проверяет цену. Пустая строка — цена не задана.
func ValidatePrice(price string) (decimal.Decimal, bool, error) {
	price = strings.TrimSpace(price)
	if price == "" {
		return decimal.Zero, false, nil
	}

	p, err := decimal.NewFromString(price)
	if err != nil {
		return decimal.Zero, false, newError("price", "price must be a valid number")
	}
	if p.Sign() <= 0 {
		return decimal.Zero, false, newError("price", "price must be greater than 0")
	}
	return p, true, nil
}

// ValidateOrderParams проверяет все параметры ордера по порядку,
// первая ошибка прерывает проверку. Сетевых вызовов здесь нет.
func ValidateOrderParams(symbol, side, orderType, quantity, price string) (model.OrderRequest, error) {
	var req model.OrderRequest
	var err error

	if req.Symbol, err = ValidateSymbol(symbol); err != nil {
		return model.OrderRequest{}, err
	}
	if req.Side, err = ValidateSide(side); err != nil {
		return model.OrderRequest{}, err
	}
	if req.Type, err = ValidateOrderType(orderType); err != nil {
		return model.OrderRequest{}, err
	}
	if req.Quantity, err = ValidateQuantity(quantity); err != nil {
		return model.OrderRequest{}, err
	}
	if req.Price, req.HasPrice, err = ValidatePrice(price); err != nil {
		return model.OrderRequest{}, err
	}

	// Перекрестное правило: LIMIT требует цену, MARKET запрещает.
	if req.Type == futures.OrderTypeLimit && !req.HasPrice {
		return model.OrderRequest{}, newError("price", "price is required for LIMIT orders")
	}
	if req.Type == futures.OrderTypeMarket && req.HasPrice {
		return model.OrderRequest{}, newError("price", "price should not be specified for MARKET orders")
	}

	return req, nil
}
