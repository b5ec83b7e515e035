package logging

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogData collects the fields and timings of one request so they are written
// as a single log line when it completes.
type LogData struct {
	mu        sync.Mutex
	timeItems map[string]int64
	dataItems map[string]interface{}
	err       error
	logger    *logrus.Logger
}

func NewLogData(logger *logrus.Logger) *LogData {
	return &LogData{
		timeItems: make(map[string]int64),
		dataItems: make(map[string]interface{}),
		logger:    logger,
	}
}

func (l *LogData) AddTiming(entryName string) func() {
	startTime := time.Now()

	return func() {
		timeSince := time.Since(startTime).Milliseconds()
		l.mu.Lock()
		defer l.mu.Unlock()
		l.timeItems[entryName] = timeSince
	}
}

func (l *LogData) AddToExistingTiming(entryName string) func() {
	startTime := time.Now()

	return func() {
		timeSince := time.Since(startTime).Milliseconds()
		l.mu.Lock()
		defer l.mu.Unlock()
		l.timeItems[entryName] += timeSince
	}
}

func (l *LogData) AddData(key string, value interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dataItems[key] = value
}

// SetError records the error the request failed with.
func (l *LogData) SetError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

func (l *LogData) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *LogData) Log() *logrus.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	fields := make(logrus.Fields, len(l.dataItems)+len(l.timeItems))
	for key, value := range l.dataItems {
		fields[key] = value
	}
	for key, value := range l.timeItems {
		fields[key] = value
	}

	entry := logrus.NewEntry(l.logger).WithFields(fields)
	if l.err != nil {
		entry = entry.WithError(l.err)
	}
	return entry
}

type logDataKey struct{}

func WithLogData(ctx context.Context, logData *LogData) context.Context {
	return context.WithValue(ctx, logDataKey{}, logData)
}

// GetLogData returns the request's LogData. Outside a request it returns a
// detached LogData on the standard logger so callers never need a nil check.
func GetLogData(ctx context.Context) *LogData {
	if logData, ok := ctx.Value(logDataKey{}).(*LogData); ok {
		return logData
	}
	return NewLogData(logrus.StandardLogger())
}
