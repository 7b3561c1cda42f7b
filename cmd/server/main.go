package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/salonops/repeat-insight/internal/api"
	"github.com/salonops/repeat-insight/internal/archive"
	"github.com/salonops/repeat-insight/internal/config"
	"github.com/salonops/repeat-insight/internal/pkg/logger"
	"github.com/salonops/repeat-insight/internal/report"
	"github.com/salonops/repeat-insight/internal/session"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	if cfg.Logging.RedactPII != nil {
		logger.SetRedactPII(*cfg.Logging.RedactPII)
	}

	// Session store: Redis when configured, in-memory otherwise.
	var store session.Store
	if cfg.Session.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("Redis unreachable at %s: %v", cfg.Session.RedisAddr, err)
		}
		cancel()
		store = session.NewRedisStore(client, cfg.Session.TTL())
		log.Printf("Session store: redis (%s)", cfg.Session.RedisAddr)
	} else {
		store = session.NewMemoryStore(cfg.Session.TTL())
		log.Println("Session store: in-memory (sessions do not survive restarts)")
	}

	// Optional run archive in Postgres.
	var arch *archive.Archive
	if cfg.Archive.Enabled {
		db, err := sql.Open("postgres", cfg.Archive.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to open archive database: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)

		initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := archive.New(db).Init(initCtx); err != nil {
			cancel()
			log.Fatalf("Failed to init archive schema: %v", err)
		}
		cancel()
		arch = archive.New(db)
		log.Printf("Run archive enabled (host %s)", extractHost(cfg.Archive.DatabaseURL))
	}

	reports := report.New(cfg.Report.Dir)
	server := api.NewServer(cfg, store, arch, reports)

	if err := checkPortAvailable(cfg.Server.GetHost(), cfg.Server.Port); err != nil {
		log.Fatalf("%v", err)
	}

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func extractHost(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}
