// cmd/server/main.go
package main

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/navaplaystudios/uno-server/internal/cache"
	"github.com/navaplaystudios/uno-server/internal/database"
	"github.com/navaplaystudios/uno-server/internal/handlers"
	"github.com/navaplaystudios/uno-server/internal/middleware"
)

func main() {
	logger := logrus.New()
	if os.Getenv("LOG_LEVEL") == "debug" {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Optional sinks. The server plays fine without either.
	if os.Getenv("REDIS_ADDR") != "" {
		if err := cache.ConnectRedis(); err != nil {
			logger.WithError(err).Warn("Redis unavailable, action history disabled")
		} else {
			logger.Info("Connected to Redis, action history enabled")
		}
	}
	if os.Getenv("DATABASE_URL") != "" {
		if err := database.ConnectDB(); err != nil {
			logger.WithError(err).Warn("Postgres unavailable, result recording disabled")
		} else {
			defer database.DB.Close()
			logger.Info("Connected to Postgres, result recording enabled")
		}
	}

	srv := handlers.NewGameServer(logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(logger)(
		handlers.GameWSHandler(logger, srv),
	))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":           "OK",
			"activeGames":      srv.Manager.GameCount(),
			"connectedPlayers": srv.ConnCount(),
			"timestamp":        time.Now().UnixMilli(),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}

	l, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		logger.Fatalf("failed to listen: %v", err)
	}
	logger.Infof("UNO server listening on %s", l.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		logger.Errorf("failed to serve: %v", err)
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
	}
}
