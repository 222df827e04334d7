package main

import (
	"context"
	"flag"

	"go-leave/internal/app"
	"go-leave/internal/bootstrap"
	"go-leave/internal/config"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	apperror.Init()

	audit := bootstrap.NewStdoutAuditLogger("consumer", log)
	audit.Log(context.Background(), bootstrap.AuditLog{
		Action:  bootstrap.ActionProcessStart,
		Message: "Employee lifecycle consumer is starting",
		Meta: map[string]any{
			"broker": cfg.Kafka.Broker,
			"group":  cfg.Kafka.ConsumerGroup,
		},
	})

	err = app.RunConsumer(cfg, log)

	stopped := bootstrap.AuditLog{Action: bootstrap.ActionProcessStopped, Message: "Employee lifecycle consumer stopped"}
	if err != nil {
		stopped.Failed = true
		stopped.Meta = map[string]any{"error": err.Error()}
	}
	audit.Log(context.Background(), stopped)

	if err != nil {
		log.Fatal("run consumer failed", zap.Error(err))
	}
}
