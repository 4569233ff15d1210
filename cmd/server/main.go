// Command server starts the candidate analysis HTTP API.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rolematch/candidate-analyzer/internal/batchapi"
	"github.com/rolematch/candidate-analyzer/internal/schema"
	"github.com/rolematch/candidate-analyzer/internal/textcache"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP server address")
	dbURL := flag.String("db", getEnv("DATABASE_URL", "postgres://localhost/candidate_analyzer?sslmode=disable"), "PostgreSQL connection URL for the text cache")
	flag.Parse()

	logger := log.New(os.Stdout, "[candidate-analyzer] ", log.LstdFlags)

	store, err := textcache.Open(*dbURL)
	if err != nil {
		logger.Printf("warning: text cache unavailable: %v (continuing without cache)", err)
		store = nil
	} else {
		defer store.Close()
		if err := store.EnsureSchema(context.Background()); err != nil {
			logger.Printf("warning: failed to ensure text cache schema: %v", err)
		}
	}

	handler := batchapi.NewHandler(logger, currentYearMonth)
	if store != nil {
		handler = handler.WithCache(store)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Printf("starting server on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	logger.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("forced shutdown: %v", err)
	}

	logger.Println("server stopped")
}

// currentYearMonth supplies the clock batchapi injects into every analysis
// run. Keeping it as a single function makes the clock source explicit and
// easy to stub in tests that construct a Handler directly.
func currentYearMonth() schema.YearMonth {
	now := time.Now().UTC()
	return schema.YearMonth{Year: now.Year(), Month: int(now.Month())}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
