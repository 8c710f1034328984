package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dkovalev/reminder/internal/app"
	"github.com/dkovalev/reminder/internal/journal"
	"github.com/dkovalev/reminder/internal/logger"
	"github.com/dkovalev/reminder/internal/notifier"
	"github.com/dkovalev/reminder/internal/notifier/ws"
	"github.com/dkovalev/reminder/internal/rabbit"
	"github.com/dkovalev/reminder/internal/scheduler"
	internalhttp "github.com/dkovalev/reminder/internal/server/http"
	"github.com/dkovalev/reminder/internal/storagebuilder"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "./configs/config.yaml", "Path to configuration file")
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.WarnLevel)
}

func main() {
	flag.Parse()

	config, err := NewConfig(configFile)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	err = logger.PrepareLogger(config.Logger)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	stor, err := storagebuilder.New(config.Storage)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	jrnl, err := journal.Open(config.Journal)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	defer jrnl.Close()

	reminder := app.New(stor)
	hub := ws.NewHub(reminder)

	notifiers := notifier.Multi{hub}
	if config.Rabbit.Enabled {
		provider := rabbit.New(config.Rabbit)
		if err := provider.Connect(); err != nil {
			log.Errorf("failed to connect to rabbit, reminders stay local: %v", err)
		} else {
			defer provider.Close()
			notifiers = append(notifiers, rabbit.NewNotifier(provider))
		}
	}

	sched := scheduler.New(stor, jrnl, notifiers)
	httpServer := internalhttp.NewServer(config.HTTPServer, reminder)
	wsServer := ws.NewServer(config.WSServer, hub)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	if err := sched.Start(); err != nil {
		log.Errorf("failed to start scheduler: %v", err)
		return
	}

	go func() {
		<-ctx.Done()
		sched.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		if err := wsServer.Stop(ctx); err != nil {
			log.Error("failed to stop websocket server: " + err.Error())
		}
		if err := httpServer.Stop(ctx); err != nil {
			log.Error("failed to stop http server: " + err.Error())
		}
	}()

	go func() {
		if err := wsServer.Start(ctx); err != nil {
			log.Error("failed to start websocket server: " + err.Error())
			cancel()
		}
	}()

	log.Info("reminder is running...")

	if err := httpServer.Start(ctx); err != nil {
		log.Error("failed to start http server: " + err.Error())
		cancel()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()
		err := stor.Close(ctx)
		if err != nil {
			log.Errorf("failed to close storage: %v", err)
		}
		os.Exit(1) //nolint:gocritic
	}
	ctx, cancel = context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()
	err = stor.Close(ctx)
	if err != nil {
		log.Errorf("failed to close storage: %v", err)
	}
}
