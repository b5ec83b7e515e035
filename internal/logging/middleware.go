package logging

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"
)

// Middleware gives every request its own LogData and writes it once the
// handler returns, as Handler.<operation>.Complete or Handler.<operation>.Error.
func Middleware(log *logrus.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		logData := NewLogData(log)
		loggingName := ctx.Operation().OperationID
		logData.AddData("method", ctx.Method())
		logData.AddData("path", ctx.URL().Path)

		endTimer := logData.AddTiming("duration")
		next(huma.WithValue(ctx, logDataKey{}, logData))
		endTimer()

		status := ctx.Status()
		logData.AddData("status", status)
		switch {
		case status >= http.StatusInternalServerError:
			logData.Log().Errorf("Handler.%v.Error", loggingName)
		case logData.Err() != nil:
			logData.Log().Warnf("Handler.%v.Error", loggingName)
		default:
			logData.Log().Infof("Handler.%v.Complete", loggingName)
		}
	}
}
