package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/command"
	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/handler"
	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/query"
	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/repository"
	"github.com/Preet1920/finebookeasyaccounting/shared/config"
	"github.com/Preet1920/finebookeasyaccounting/shared/events"
	"github.com/Preet1920/finebookeasyaccounting/shared/middleware"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backends, err := repository.OpenBackends(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open ledger backends: %v", err)
	}
	defer backends.Close()

	// --- Ledger state ---
	users := repository.OpenSnapshotRepository(ctx, repository.NewJSONStore(backends.Records))
	defer users.Close()

	sessions := repository.NewSessionRepository(backends.Sessions)
	sessions.Restore(ctx, users.Current())

	// --- CQRS wiring ---
	var publisher command.EventPublisher
	if cfg.PublishEvents && backends.Redis != nil {
		publisher = events.NewPublisher(backends.Redis.Client)
	}

	commandSvc := command.NewLedgerCommandService(users, sessions, publisher, cfg.ConfirmationTTL)
	querySvc := query.NewLedgerQueryService(users, sessions)

	userHandler := handler.NewUserHandler(commandSvc, querySvc)
	bookHandler := handler.NewBookHandler(commandSvc, querySvc)

	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		v1.POST("/auth/register", userHandler.Register)
		v1.POST("/auth/login", userHandler.Login)
		v1.POST("/auth/logout", userHandler.Logout)
		v1.GET("/session", userHandler.GetSession)
	}

	protected := v1.Group("", middleware.RequireSession(sessions))
	{
		protected.GET("/profile", userHandler.GetProfile)
		protected.PATCH("/profile", userHandler.UpdateProfile)
		protected.POST("/profile/password", userHandler.ChangePassword)

		protected.GET("/books", bookHandler.ListBooks)
		protected.POST("/books", bookHandler.CreateBook)
		protected.GET("/books/:bookId", bookHandler.GetBook)
		protected.PATCH("/books/:bookId", bookHandler.UpdateBook)
		protected.POST("/books/:bookId/select", bookHandler.SelectBook)
		protected.POST("/books/:bookId/deletions", bookHandler.RequestBookDeletion)
		protected.GET("/books/:bookId/export", bookHandler.ExportBook)
		protected.POST("/books/:bookId/transactions", bookHandler.CreateTransaction)
		protected.PATCH("/books/:bookId/transactions/:transactionId", bookHandler.UpdateTransaction)
		protected.POST("/books/:bookId/msb-transactions", bookHandler.CreateMSBTransaction)
		protected.PUT("/books/:bookId/msb-transactions/:transactionId", bookHandler.ReplaceMSBTransaction)

		protected.GET("/transactions/:transactionId", bookHandler.GetTransaction)
		protected.PATCH("/transactions/:transactionId/status", bookHandler.UpdateMSBStatus)
		protected.POST("/transactions/:transactionId/deletions", bookHandler.RequestTransactionDeletion)

		protected.POST("/confirmations/:token", bookHandler.ConfirmDeletion)
	}

	if publisher != nil {
		go func() {
			subscriber := events.NewSubscriber(backends.Redis.Client, events.SubscriberConfig{
				Group:    "ledger-audit-group",
				Consumer: "ledger-audit-1",
				Handler:  command.HandleLedgerEvent,
			})
			if err := subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Audit subscriber stopped: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		log.Printf("Ledger service starting on port %s (store=%s, sessions=%s)", cfg.Port, cfg.Store, cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
