package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/dkovalev/reminder/internal/logger"
	"github.com/dkovalev/reminder/internal/rabbit"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "./configs/watcher_config.yaml", "Path to configuration file")
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

	r := rabbit.New(config.Rabbit)
	if err := r.Connect(); err != nil {
		log.Errorf("failed to connect to rabbit: %v", err)
		return
	}
	defer r.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	err = r.Consume(ctx, func(msg amqp.Delivery) {
		m := rabbit.Message{}
		if err := json.Unmarshal(msg.Body, &m); err != nil {
			log.Errorf("failed to parse bytes: %s", err)
			return
		}
		log.Printf("reminder: event %d %q at %s", m.ID, m.Title, m.Time)
	})
	if err != nil {
		log.Errorf("failed to consume: %v", err)
	}
}
