package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dota2-beta/Dungeon-Game/internal/engine"
	"github.com/dota2-beta/Dungeon-Game/internal/network"
	"github.com/dota2-beta/Dungeon-Game/internal/server"
	"github.com/dota2-beta/Dungeon-Game/internal/version"
	"github.com/dota2-beta/Dungeon-Game/pkg/dungeon"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Конфигурация: окружение, флаги перекрывают его
	cfg, err := engine.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}
	flag.StringVar(&cfg.MapPath, "map", cfg.MapPath, "Path to a text map (embedded map when empty)")
	flag.StringVar(&cfg.ContentPath, "content", cfg.ContentPath, "Path to a YAML content catalog (embedded catalog when empty)")
	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	flag.Parse()

	logger.Log.Info("Starting Hex Dungeon...")
	logger.Log.Info(version.String())

	// 2. Контент и карта
	catalog, err := loadCatalog(cfg.ContentPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load content catalog")
	}
	if _, ok := catalog.Class(cfg.DefaultClass); !ok {
		logger.Log.Fatalf("Default class %q is not in the catalog (known: %v)", cfg.DefaultClass, catalog.ClassIDs())
	}

	factory := dungeon.NewFactory(catalog, cfg.Rules.PlayerStartAP)
	world, err := dungeon.NewWorld(cfg.MapPath, factory)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load map")
	}

	// 3. Ядро
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := network.NewBroadcaster()
	manager := engine.NewManager(ctx, world, factory, hub, cfg.Rules)

	// 4. Запуск сервера
	srv := server.New(manager, hub, cfg.Port, cfg.DefaultClass)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.WithError(err).Fatal("Server start error")
		}
	}()

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown failed")
	}
	manager.Shutdown()

	logger.Log.Info("Done.")
}

func loadCatalog(path string) (*dungeon.Catalog, error) {
	if path == "" {
		return dungeon.DefaultCatalog()
	}
	return dungeon.LoadCatalogFile(path)
}
