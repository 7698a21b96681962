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

	"github.com/redis/go-redis/v9"

	"coinchat-backend/internal/api"
	"coinchat-backend/internal/config"
	"coinchat-backend/internal/handlers"
	"coinchat-backend/internal/integrations"
	"coinchat-backend/internal/queue"
	"coinchat-backend/internal/services"
	"coinchat-backend/internal/store/memory"
)

func main() {
	log.Println("Starting CoinChat Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize Dependencies (Store, Gateway, Executor)
	conversationStore := memory.NewStore(cfg.SystemPrompt, cfg.MaxHistoryMessages)
	log.Println("Conversation store initialized.")

	gateway := integrations.NewOpenAIGateway(cfg)
	log.Println("OpenAI gateway initialized.")

	var executor services.CompletionExecutor
	var stopWorker context.CancelFunc = func() {}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			pingCancel()
			log.Fatalf("FATAL: Unable to ping redis at %s: %v", cfg.RedisAddr, err)
		}
		pingCancel()
		log.Println("Redis connection established and pinged successfully.")

		broker := queue.NewRedisBroker(rdb, 2*cfg.UpstreamTimeout)
		worker := queue.NewWorker(broker, gateway)

		workerCtx, cancelWorker := context.WithCancel(context.Background())
		stopWorker = cancelWorker
		go worker.Run(workerCtx)

		executor = queue.NewQueuedExecutor(broker)
		log.Println("Queued completion executor initialized.")
	} else {
		executor = services.NewInlineRetryingExecutor(gateway, cfg.ChatMaxAttempts, cfg.ChatRetryDelay)
		log.Println("Inline retrying completion executor initialized.")
	}

	chatService := services.NewChatService(conversationStore, executor)
	log.Println("ChatService initialized.")

	cmcClient := integrations.NewCMCClient(cfg.CMCKey, cfg.CMCBaseURL)
	priceService := services.NewPriceService(cmcClient)
	if err := priceService.Start(cfg.PriceRefreshInterval); err != nil {
		log.Fatalf("FATAL: Failed to start price refresher: %v", err)
	}
	log.Println("PriceService initialized and refresh schedule started.")

	// 3. Initialize Handlers & Router
	chatHandler := handlers.NewChatHandlers(chatService)
	priceHandler := handlers.NewPriceHandlers(priceService)

	router := api.NewRouter(api.RouterDependencies{
		ChatHandler:  chatHandler,
		PriceHandler: priceHandler,
		Config:       cfg,
	})
	log.Println("HTTP router configured.")

	// 4. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// WriteTimeout has to outlast the chat pipeline's worst case
		// (attempts * upstream timeout + retry delays).
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Channel to listen for OS signals for graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	// Run server in a goroutine so it doesn't block
	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	// Wait for interrupt signal
	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	priceService.Stop()
	stopWorker()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
	}

	log.Println("Server shutdown complete.")
}
