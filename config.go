package main

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port                    string
	Env                     string
	MongoURL                string
	MongoDB                 string
	RedisURL                string
	KafkaBrokers            []string
	KafkaTopic              string
	FirebaseCredentialsFile string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                    getEnv("PORT", "8086"),
		Env:                     getEnv("APP_ENV", "development"),
		MongoURL:                getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:                 getEnv("MONGO_DB", "fooddelivery"),
		RedisURL:                getEnv("REDIS_URL", "redis://localhost:6379/0"),
		KafkaTopic:              getEnv("ORDER_EVENTS_TOPIC", "order.status_changed"),
		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.MongoURL == "" {
		return nil, fmt.Errorf("MONGO_URL is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
