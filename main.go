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

	"github.com/gin-gonic/gin"
)

func main() {
	// Set properties of the predefined Logger, including
	// the log entry prefix and a flag to disable printing
	// the time, source file, and line number.
	log.SetPrefix("lg/daily-plan-go-api: ")
	log.SetFlags(0)

	cfg := loadConfig()
	gin.SetMode(cfg.Server.GinMode)

	pool := getDBPool(cfg.DBURL)
	defer pool.Close()

	rdb := getRedisClient(cfg.RedisURL)
	if rdb != nil {
		defer rdb.Close()
	}

	h := newHandler(cfg, pool, rdb)

	router := gin.Default()
	router.SetTrustedProxies(nil)
	router.Use(corsMiddleware(cfg.Server.AllowedOrigins))
	h.registerRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}
	log.Println("Server stopped")
}
