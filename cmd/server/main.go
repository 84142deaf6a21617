package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"bombit/internal/config"
	"bombit/internal/conn"
	"bombit/internal/engine"
	"bombit/internal/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("bombit-server: %v", err)
	}
	log.Printf("bombit-server: starting on %s (players=%d grid=%dx%d turn=%s)",
		cfg.ListenAddr, cfg.Game.PlayersCount, cfg.Game.SizeX, cfg.Game.SizeY, cfg.Game.TurnDuration)

	m := metrics.New()
	go serveMetrics(cfg.MetricsAddr, m)

	eng := engine.New(cfg.Game, m)
	inbound := make(chan engine.Inbound, 1024)

	go eng.Run(ctx, inbound)
	go eng.TickLoop()

	ln, err := conn.Listen(ctx, cfg.ListenAddr)
	if err != nil {
		log.Fatalf("bombit-server: listen: %v", err)
	}

	pool := conn.New(eng, m, cfg.Slots, inbound, cfg.MessageRateLimit, cfg.BurstLimit)
	if err := pool.Serve(ctx, ln); err != nil {
		log.Fatalf("bombit-server: serve: %v", err)
	}
	log.Printf("bombit-server: shut down")
}

func serveMetrics(addr string, m *metrics.Server) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("bombit-server: metrics server: %v", err)
	}
}
