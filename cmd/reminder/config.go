package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/dkovalev/reminder/internal/journal"
	"github.com/dkovalev/reminder/internal/logger"
	"github.com/dkovalev/reminder/internal/notifier/ws"
	"github.com/dkovalev/reminder/internal/rabbit"
	internalhttp "github.com/dkovalev/reminder/internal/server/http"
	"github.com/dkovalev/reminder/internal/storagebuilder"
)

const envConfigPrefix = "$env:"

type Config struct {
	HTTPServer internalhttp.Config
	WSServer   ws.Config
	Logger     logger.Config
	Storage    storagebuilder.Config
	Journal    journal.Config
	Rabbit     rabbit.Config
}

func NewConfig(configFile string) (Config, error) {
	config := Config{}
	viper.SetConfigFile(configFile)

	viper.SetDefault("httpServer.host", "127.0.0.1")
	viper.SetDefault("httpServer.port", "3000")
	viper.SetDefault("wsServer.host", "127.0.0.1")
	viper.SetDefault("wsServer.port", "8080")
	viper.SetDefault("logger.level", "WARN")
	viper.SetDefault("storage.storageType", "file")
	viper.SetDefault("storage.file.path", "events.json")
	viper.SetDefault("journal.path", "completedEvents.log")
	viper.SetDefault("rabbit.enabled", "false")
	viper.SetDefault("rabbit.host", "127.0.0.1")
	viper.SetDefault("rabbit.port", "5672")
	viper.SetDefault("rabbit.user", "user")
	viper.SetDefault("rabbit.password", "pass")
	viper.SetDefault("rabbit.queue", "reminder.notify")

	err := viper.ReadInConfig()
	if err != nil {
		return config, fmt.Errorf("failed to read config %q: %w", configFile, err)
	}
	keys := viper.AllKeys()
	for _, key := range keys {
		env := viper.GetString(key)
		if strings.HasPrefix(env, envConfigPrefix) {
			err := viper.BindEnv(key, env[len(envConfigPrefix):])
			if err != nil {
				return Config{}, fmt.Errorf("failed to prepare config: %w", err)
			}
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return config, fmt.Errorf("unable to decode into config struct: %w", err)
	}
	return config, nil
}
