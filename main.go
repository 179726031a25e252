package main

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"photobooth/internal/app/camera"
	"photobooth/internal/app/httpapi"
	"photobooth/internal/app/names"
	"photobooth/pkg/ice"
	"photobooth/pkg/rooms"
	"photobooth/pkg/signaling"
)

const defaultStaticPath = "../frontend/dist"

func main() {
	loadEnv()
	cfg := loadConfig()
	logConfig(cfg)

	var (
		roomStore   rooms.Store
		nameStore   names.Store
		cameraStore camera.Store
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("redis ping failed: %v", err)
		}

		rStore := rooms.NewRedisStore(rdb, "booth")
		nStore := names.NewRedisStore(rdb, "booth")
		cStore := camera.NewRedisStore(rdb, "booth")

		// Presence left behind by a previous process is stale by definition.
		for _, s := range []interface{ Reset(context.Context) error }{rStore, nStore, cStore} {
			if err := s.Reset(ctx); err != nil {
				log.Printf("redis reset: %v", err)
			}
		}
		roomStore, nameStore, cameraStore = rStore, nStore, cStore
	} else {
		roomStore = rooms.NewMemoryStore()
		nameStore = names.NewMemoryStore()
		cameraStore = camera.NewMemoryStore()
	}

	iceMode, iceServers := ice.LoadFromEnv()

	hub := signaling.NewHub(roomStore, signaling.HubOptions{
		ICEServers: iceServers,
		ICEMode:    iceMode,
		Names:      nameStore,
		Cameras:    cameraStore,
	})

	settings := httpapi.Settings{
		ICEMode:     iceMode,
		ICEServers:  iceServers,
		PublicWSURL: cfg.PublicWSURL,
	}

	http.Handle("/ws", hub.HTTPHandler())
	http.Handle("/healthz", httpapi.HealthHandler())
	http.Handle("/api/settings", httpapi.SettingsHandler(settings))
	http.Handle("/api/rooms", httpapi.CreateRoomHandler())
	http.Handle("/", httpapi.SPAHandler(cfg.StaticPath))

	log.Printf("listening on %s (static: %s)", cfg.Addr, cfg.StaticPath)
	if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

type config struct {
	Addr        string
	RedisAddr   string
	StaticPath  string
	PublicWSURL string
}

func loadConfig() config {
	return config{
		Addr:        getenv("ADDR", ":8080"),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		StaticPath:  getenv("STATIC_DIR", defaultStaticPath),
		PublicWSURL: strings.TrimSpace(os.Getenv("PUBLIC_WS_URL")),
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func loadEnv() {
	paths := []string{
		".env",
		filepath.Join("backend", ".env"),
		"../.env",
	}
	for _, p := range paths {
		if err := loadEnvFile(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("env load warning for %s: %v", p, err)
		}
	}
}

func logConfig(cfg config) {
	storage := "memory"
	if cfg.RedisAddr != "" {
		storage = "redis"
	}
	log.Printf("config: addr=%s static_dir=%s storage=%s redis_addr=%s",
		cfg.Addr, cfg.StaticPath, storage, cfg.RedisAddr)
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, val)
		}
	}
	return scanner.Err()
}
