package model

import (
	"github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

// Сырой ордер как он приходит от оператора (CLI, HTTP, кафка).
// Все поля строки, валидация превращает их в OrderRequest.
type RawOrder struct {
	Symbol   string `json:"symbol"`
	Side     string `json:"side"`
	Type     string `json:"type"`
	Quantity string `json:"quantity"`
	Price    string `json:"price,omitempty"`
}

// Проверенный ордер. Price заполнен только для LIMIT.
type OrderRequest struct {
	Symbol   string
	Side     futures.SideType
	Type     futures.OrderType
	Quantity decimal.Decimal
	Price    decimal.Decimal
	HasPrice bool
}

// Информация об инструменте из /fapi/v1/exchangeInfo.
type SymbolInfo struct {
	Symbol  string         `json:"symbol"`
	Status  string         `json:"status"`
	Filters []SymbolFilter `json:"filters"`
}

type SymbolFilter struct {
	FilterType  string `json:"filterType"`
	TickSize    string `json:"tickSize,omitempty"`
	StepSize    string `json:"stepSize,omitempty"`
	MinQty      string `json:"minQty,omitempty"`
	MinNotional string `json:"minNotional,omitempty"`
}

// Статус инструмента, при котором биржа принимает ордера.
const SymbolStatusTrading = "TRADING"

// Нормализованный ответ биржи на создание ордера.
type OrderResult struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Status        string `json:"status"`
	Type          string `json:"type"`
	Side          string `json:"side"`
	Price         string `json:"price"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	AvgPrice      string `json:"avgPrice"`
	TimeInForce   string `json:"timeInForce"`
	UpdateTime    int64  `json:"updateTime"`
}
