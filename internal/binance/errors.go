package binance

import "fmt"

// APIError — биржа явно отклонила корректно подписанный запрос.
// StatusCode — HTTP-статус, Code — внутренний код биржи (например -1121).
type APIError struct {
	StatusCode int
	Code       int64
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance api error: status=%d code=%d msg=%q", e.StatusCode, e.Code, e.Message)
}

// TransportError — сеть или таймаут, до биржи запрос не дошел
// либо ответ не получен.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("binance transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnexpectedError — все, что не попало в остальные категории
// (например, неразбираемое тело успешного ответа).
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("binance unexpected error: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }
