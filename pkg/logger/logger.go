package logger

import (
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init пишет в stderr с настройками logrus по умолчанию.
var Log = logrus.New()

// Options - настройки логгера из окружения
type Options struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	Format  string `env:"LOG_FORMAT" envDefault:"text"`
	NoColor bool   `env:"LOG_NO_COLOR"`
}

// Init читает Options из окружения и настраивает Log.
// Вызывается один раз при старте (init в cmd/*, TestMain в тестах).
func Init() {
	var opts Options
	if err := env.Parse(&opts); err != nil {
		opts = Options{Level: "info", Format: "text"}
	}
	Configure(opts)
}

// Configure применяет настройки к глобальному логгеру.
// Неизвестный уровень превращается в info.
func Configure(opts Options) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// json - для сбора логов, text - для разработки
	if strings.EqualFold(opts.Format, "json") {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   !opts.NoColor,
			DisableColors: opts.NoColor,
		})
	}

	Log.SetOutput(os.Stdout)
}

// Component возвращает запись лога с полем component
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
