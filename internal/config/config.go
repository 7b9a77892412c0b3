package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken                string
	AdminChannelID          int64
	AdminIDs                []int64
	RequestsChannelID       int64
	RequiredChannelID       int64
	RequiredChannelUsername string
	MembershipCacheTTL      time.Duration
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Printf("config.Load: no .env file found - using env variables")
	}

	cfg := &Config{
		BotToken:                os.Getenv("BOT_TOKEN"),
		RequiredChannelUsername: strings.TrimPrefix(os.Getenv("REQUIRED_CHANNEL_USERNAME"), "@"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("config.Load: BOT_TOKEN is required")
	}

	cfg.AdminChannelID, err = parseChatID("ADMIN_CHANNEL_ID")
	if err != nil {
		return nil, err
	}

	cfg.RequestsChannelID, err = parseChatID("REQUESTS_CHANNEL_ID")
	if err != nil {
		return nil, err
	}

	cfg.RequiredChannelID, err = parseChatID("REQUIRED_CHANNEL_ID")
	if err != nil {
		return nil, err
	}

	cfg.AdminIDs, err = parseAdminIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, err
	}

	if len(cfg.AdminIDs) == 0 {
		return nil, fmt.Errorf("config.Load: ADMIN_IDS is required")
	}

	if cfg.RequiredChannelUsername == "" {
		return nil, fmt.Errorf("config.Load: REQUIRED_CHANNEL_USERNAME is required")
	}

	cfg.MembershipCacheTTL = time.Hour
	if raw := os.Getenv("MEMBERSHIP_CACHE_TTL"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("config.Load: MEMBERSHIP_CACHE_TTL must be a positive number of seconds")
		}
		cfg.MembershipCacheTTL = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

func parseChatID(name string) (int64, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, fmt.Errorf("config.Load: %s is required", name)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config.Load: %s must be a chat id: %w", name, err)
	}

	return id, nil
}

func parseAdminIDs(raw string) ([]int64, error) {
	var ids []int64

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("config.Load: ADMIN_IDS contains invalid id %q: %w", part, err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}
