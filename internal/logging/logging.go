package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

func SetupLogging(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	logger := logrus.Logger{
		Formatter: &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		},
		Out:      os.Stdout,
		Hooks:    make(logrus.LevelHooks),
		Level:    lvl,
		ExitFunc: os.Exit,
	}

	return &logger, nil
}
