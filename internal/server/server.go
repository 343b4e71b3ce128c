package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	"github.com/RocketMenace/Wallet/internal/config"
	"github.com/RocketMenace/Wallet/internal/handler"
	"github.com/RocketMenace/Wallet/internal/logging"
	"github.com/RocketMenace/Wallet/internal/repository"
	"github.com/RocketMenace/Wallet/internal/service"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Server wires the storage, services and HTTP routing together.
type Server struct {
	router *mux.Router
	server *http.Server
	db     *sql.DB
	logger *slog.Logger
	port   string
}

// NewServer connects to the database and builds the full request pipeline.
// Dependencies are constructed here and passed down explicitly; there is no
// process-wide registry.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sql.Open("postgres", cfg.GetDBConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("connected to database", "host", cfg.DBHost, "database", cfg.DBName)

	store := repository.NewStore(db, logger)

	walletService := service.NewWalletService(store, logger)
	transactionService := service.NewTransactionService(store, logger)

	walletHandler := handler.NewWalletHandler(walletService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	healthHandler := handler.NewHealthHandler(db, Version)

	router := mux.NewRouter()
	router.Use(loggingMiddleware(logger))

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/wallets", walletHandler.CreateWallet).Methods("POST")
	api.HandleFunc("/wallets/{wallet_id}", walletHandler.GetWallet).Methods("GET")
	api.HandleFunc("/wallets/{wallet_id}/operation", transactionHandler.ApplyOperation).Methods("POST")
	api.HandleFunc("/wallets/{wallet_id}/transactions", transactionHandler.ListTransactions).Methods("GET")
	api.HandleFunc("/health", healthHandler.Check).Methods("GET")

	return &Server{
		router: router,
		db:     db,
		logger: logger,
	}, nil
}

// loggingMiddleware logs every request with its status and duration.
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.statusCode,
				"duration", time.Since(start),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start begins serving on the given port. Port "0" asks the OS for a free
// one; the port actually bound is returned.
func (s *Server) Start(port string) (string, error) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return "", err
	}

	addr := listener.Addr().(*net.TCPAddr)
	s.port = strconv.Itoa(addr.Port)

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting server", "port", s.port)

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server failed", "error", err)
		}
	}()

	return s.port, nil
}

// Stop gracefully shuts down the server and closes the database pool.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down server")

	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}

	if s.db != nil {
		s.db.Close()
	}

	return err
}

// GetPort returns the port the server is listening on.
func (s *Server) GetPort() string {
	return s.port
}

// StartServer builds and starts a server from configuration. Tests pass
// ServerPort "0" and get a discard logger.
func StartServer(cfg *config.Config) (*Server, string, error) {
	var logger *slog.Logger
	if cfg.ServerPort == "0" {
		logger = logging.Discard()
	} else {
		logger = logging.New(cfg.LogLevel)
	}

	server, err := NewServer(cfg, logger)
	if err != nil {
		return nil, "", err
	}

	port, err := server.Start(cfg.ServerPort)
	if err != nil {
		return nil, "", err
	}

	return server, port, nil
}
