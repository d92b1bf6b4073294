package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dota2-beta/Dungeon-Game/internal/agent"
	"github.com/dota2-beta/Dungeon-Game/internal/engine"
	"github.com/dota2-beta/Dungeon-Game/internal/systems"
	"github.com/dota2-beta/Dungeon-Game/pkg/logger"

	"github.com/gorilla/websocket"
)

func init() {
	logger.Init()
}

// Запускает count ботов, которые подключаются к серверу как обычные игроки
func main() {
	var (
		url       string
		sessionID string
		classID   string
		prefix    string
		count     int
	)
	flag.StringVar(&url, "url", "ws://localhost:8080/ws", "Server WebSocket URL")
	flag.StringVar(&sessionID, "session", "", "Session to join (default session when empty)")
	flag.StringVar(&classID, "class", "warrior", "Player class")
	flag.StringVar(&prefix, "prefix", "bot", "User ID prefix")
	flag.IntVar(&count, "count", 1, "Number of bots")
	flag.Parse()

	cfg, err := engine.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}
	costs := systems.AICosts{MoveCost: cfg.Rules.MoveCost, AttackCost: cfg.Rules.AttackCost}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for i := 1; i <= count; i++ {
		userID := fmt.Sprintf("%s-%d", prefix, i)
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
		if err != nil {
			logger.Log.WithError(err).WithField("user_id", userID).Error("Dial failed")
			continue
		}

		bot := agent.NewBot(conn, userID, sessionID, classID, costs, cfg.Rules.AIMaxActions)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := bot.Run(ctx); err != nil {
				logger.Log.WithError(err).WithField("user_id", userID).Warn("Bot stopped")
			}
		}()
	}

	wg.Wait()
	logger.Log.Info("All bots stopped.")
}
