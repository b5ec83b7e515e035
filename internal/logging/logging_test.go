package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging(t *testing.T) {
	logger, err := SetupLogging("debug")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.Level)

	_, err = SetupLogging("loud")
	assert.Error(t, err)
}

func TestLogData_Log(t *testing.T) {
	var buf bytes.Buffer
	logger, err := SetupLogging("info")
	require.NoError(t, err)
	logger.Out = &buf

	logData := NewLogData(logger)
	logData.AddData("accountID", "abc")
	logData.AddTiming("audit")()
	logData.SetError(errors.New("boom"))
	logData.Log().Info("done")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["loglevel"])
	assert.Equal(t, "abc", line["accountID"])
	assert.Equal(t, "boom", line["error"])
	assert.Contains(t, line, "audit")
}

func TestGetLogData_Detached(t *testing.T) {
	logData := GetLogData(context.Background())
	require.NotNil(t, logData)
	logData.AddData("k", "v")
}

func TestMiddleware_OneLinePerRequest(t *testing.T) {
	var buf bytes.Buffer
	logger, err := SetupLogging("info")
	require.NoError(t, err)
	logger.Out = &buf

	_, api := humatest.New(t)
	api.UseMiddleware(Middleware(logger))

	type output struct {
		Body struct {
			OK bool `json:"ok"`
		}
	}
	huma.Register(api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
	}, func(ctx context.Context, _ *struct{}) (*output, error) {
		GetLogData(ctx).AddData("answer", 42)
		out := &output{}
		out.Body.OK = true
		return out, nil
	})

	resp := api.Get("/ping")
	require.Equal(t, http.StatusOK, resp.Code)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Handler.ping.Complete", line["msg"])
	assert.Equal(t, float64(42), line["answer"])
	assert.Equal(t, float64(http.StatusOK), line["status"])
	assert.Contains(t, line, "duration")
}
