// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/accountrepo"
	"github.com/go-petr/pet-ledger/internal/accountservice"
	"github.com/go-petr/pet-ledger/internal/lockpkg"
	"github.com/go-petr/pet-ledger/internal/memstore"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/transactiondelivery"
	"github.com/go-petr/pet-ledger/internal/transactionrepo"
	"github.com/go-petr/pet-ledger/internal/transactionservice"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/dbpkg"
	"github.com/go-petr/pet-ledger/pkg/moneypkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
	Tokens tokenpkg.Maker
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

var (
	registerOnce sync.Once
	registerErr  error
)

func registerValidators() error {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerErr = v.RegisterValidation("money", moneypkg.ValidMoney)
		}
	})

	return registerErr
}

// storage groups what the services need from the backing store.
type storage struct {
	accounts interface {
		accountservice.Repo
		transactionservice.AccountStore
	}
	ledger transactionservice.Ledger
	tx     transactionservice.TxManager
}

func newStorage(conn *sql.DB) storage {
	if conn == nil {
		return storage{
			accounts: memstore.NewAccountRepo(),
			ledger:   memstore.NewLedgerRepo(),
			tx:       memstore.TxManager{},
		}
	}

	return storage{
		accounts: accountrepo.NewRepoPGS(conn),
		ledger:   transactionrepo.NewRepoPGS(conn),
		tx:       dbpkg.NewTxManager(conn),
	}
}

// New creates Server type with instantiated domains and routes.
//
// A nil conn keeps all state in memory. A nil locker selects an in-process
// lock manager and a nil events disables transaction notifications.
func New(
	conn *sql.DB,
	locker lockpkg.Manager,
	events transactionservice.Publisher,
	logger zerolog.Logger,
	config configpkg.Config,
) (*Server, error) {
	tokenMaker, err := tokenpkg.New(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("cannot register money validator: %w", err)
	}

	if locker == nil {
		locker = lockpkg.NewMemoryManager(config.LockTimeout)
	}

	store := newStorage(conn)

	accountService := accountservice.New(store.accounts)
	transactionService := transactionservice.New(store.accounts, store.ledger, store.tx, locker, events)

	accountHandler := accountdelivery.NewHandler(accountService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.POST("/accounts", accountHandler.Create)
	authRoutes.GET("/accounts/:id", accountHandler.Get)
	authRoutes.GET("/accounts", accountHandler.List)

	authRoutes.POST("/transactions/deposit", transactionHandler.Deposit)
	authRoutes.POST("/transactions/withdraw", transactionHandler.Withdraw)
	authRoutes.POST("/transactions/transfer", transactionHandler.Transfer)
	authRoutes.GET("/transactions/:id", transactionHandler.Get)
	authRoutes.GET("/transactions/account/:accountId", transactionHandler.ListByAccount)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
		Tokens: tokenMaker,
	}

	return server, nil
}
