package main

import (
	"context"
	"parkpulse/config"
	"parkpulse/di"
	"parkpulse/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	consumer := di.InitializeConsumer()
	go consumer.Start(context.Background())

	http := di.InitializeService()
	http.Serve()
}
