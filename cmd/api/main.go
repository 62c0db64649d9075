package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sunvolt/fieldopsgo/internal/config"
	"github.com/sunvolt/fieldopsgo/internal/database"
	"github.com/sunvolt/fieldopsgo/internal/handlers"
	"github.com/sunvolt/fieldopsgo/internal/models"
	"github.com/sunvolt/fieldopsgo/internal/services/purchasing"
	"github.com/sunvolt/fieldopsgo/internal/store"
	"github.com/sunvolt/fieldopsgo/internal/websocket"
	"github.com/sunvolt/fieldopsgo/internal/workflow"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// 3. Synchronize schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.UserAuth{},
		&models.FieldRecord{},
		&models.StockItem{},
		&models.StockMovement{},
		&models.PurchaseRequest{},
		&models.SalesQuote{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Live operations feed
	hub := websocket.NewHub()
	go hub.Run()

	// 5. Workflow engine on top of the record store
	recordStore := store.New(db)
	engine := workflow.NewEngine(recordStore)
	engine.SetNotifier(hub)

	// 6. Purchasing bridge (best-effort forwarding of purchase requests)
	bridge := purchasing.NewService(cfg.Purchasing)
	if bridge.Enabled() {
		engine.SetForwarder(bridge)
		log.Println("✅ Purchasing bridge registered")
	}

	// 7. HTTP router
	router := handlers.NewRouter(cfg, db, recordStore, engine, hub)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🌞 Field operations API listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
	if err := db.Close(); err != nil {
		log.Printf("⚠️ Database shutdown: %v", err)
	}
	log.Println("✅ Server stopped")
}
