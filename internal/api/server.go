package api

import (
	"context"
	"net/http"

	"app/internal/logger"
	"app/internal/model"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// OrderService — операции оркестратора, нужные HTTP-слою.
type OrderService interface {
	PlaceOrder(ctx context.Context, raw model.RawOrder) (*model.OrderResult, error)
	TestConnection(ctx context.Context) bool
}

// PriceService — публичные данные биржи.
type PriceService interface {
	GetCurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// Server — тонкий HTTP-фасад над оркестратором. Подтверждений здесь нет,
// запрос по API считается уже подтвержденным оператором.
type Server struct {
	router    *mux.Router
	orders    OrderService
	prices    PriceService
	jwtSecret string
	log       logger.Logger
}

func NewServer(orders OrderService, prices PriceService, jwtSecret string, log logger.Logger) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		orders:    orders,
		prices:    prices,
		jwtSecret: jwtSecret,
		log:       log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/price/{symbol}", s.handlePrice).Methods(http.MethodGet)

	// Размещение ордера только с валидным токеном.
	api.Handle("/orders", s.authMiddleware(http.HandlerFunc(s.handlePlaceOrder))).
		Methods(http.MethodPost)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
