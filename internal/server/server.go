package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"papertrade/internal/prefs"
	"papertrade/pkg/exchange"
	"papertrade/pkg/exchange/paper"
	"papertrade/pkg/tools/risk"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	Addr           string
	AllowedOrigins []string
	BarPeriod      time.Duration
	DepthLevels    int
	DepthBucket    time.Duration
	RiskLimits     risk.Limits
}

// Server is the HTTP face of the simulator: a REST surface over the engine
// and synthesizer plus a websocket hub for streaming. It owns no trading
// state, every mutation is delegated to the engine.
type Server struct {
	logger  *zap.Logger
	engine  *paper.Engine
	symbols exchange.SymbolStore
	prefs   *prefs.Store
	options Options

	router *mux.Router
	hub    *Hub
}

func New(logger *zap.Logger, engine *paper.Engine, symbols exchange.SymbolStore, store *prefs.Store, options Options) *Server {
	s := &Server{
		logger:  logger,
		engine:  engine,
		symbols: symbols,
		prefs:   store,
		options: options,
		router:  mux.NewRouter(),
		hub:     NewHub(logger),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/symbols", s.handleSymbols).Methods(http.MethodGet)
	api.HandleFunc("/candles/{symbol}", s.handleCandles).Methods(http.MethodGet)
	api.HandleFunc("/depth/{symbol}", s.handleDepth).Methods(http.MethodGet)

	api.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders", s.handlePlaceOrder).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}/cancel", s.handleCancelOrder).Methods(http.MethodPost)

	api.HandleFunc("/positions", s.handleListPositions).Methods(http.MethodGet)
	api.HandleFunc("/positions/{id}/close", s.handleClosePosition).Methods(http.MethodPost)

	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	api.HandleFunc("/account", s.handleAccount).Methods(http.MethodGet)
	api.HandleFunc("/risk", s.handleRisk).Methods(http.MethodGet)

	api.HandleFunc("/prefs/{key}", s.handleGetPref).Methods(http.MethodGet)
	api.HandleFunc("/prefs/{key}", s.handlePutPref).Methods(http.MethodPut)
	api.HandleFunc("/prefs/{key}", s.handleDeletePref).Methods(http.MethodDelete)

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
}

// Hub exposes the broadcast side for bus handler wiring.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run serves until the context is cancelled, then drains with a bounded
// graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	go s.hub.Run(ctx)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.options.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              s.options.Addr,
		Handler:           c.Handler(s.router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.options.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
