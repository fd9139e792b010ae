package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"

	"github.com/bookbridge/exchange-service/app"
	"github.com/bookbridge/exchange-service/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file, relying on environment")
	}
	cfg := config.NewConfig(
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
