package status

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/logging"
)

type StatusBody struct {
	Status string `json:"status" example:"ok" doc:"ok when storage is reachable"`
}

type StatusOutput struct {
	Body StatusBody
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Handler handles GET /status.
type Handler struct {
	Storage pinger
}

func NewHandler(storage pinger) *Handler {
	return &Handler{Storage: storage}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Service status",
		Description: "Reports whether the storage backend is reachable.",
		Tags:        []string{"Status"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, _ *struct{}) (*StatusOutput, error) {
	logData := logging.GetLogData(ctx)

	stopTimer := logData.AddTiming("pingMs")
	err := h.Storage.Ping(ctx)
	stopTimer()
	if err != nil {
		logData.SetError(err)
		return nil, huma.NewError(http.StatusServiceUnavailable, "storage unavailable", err)
	}
	return &StatusOutput{Body: StatusBody{Status: "ok"}}, nil
}
