package api

import (
	"net/http"

	"gobioact/app"
	"gobioact/domain/descriptor"
	"gobioact/domain/stage"
	"gobioact/internal"

	"github.com/go-chi/render"
)

// RunHandler serves pipeline runs over HTTP
type RunHandler struct {
	pipeline *app.PipelineService
	defaults stage.PipelineConfig
	logger   *internal.Logger
}

// NewRunHandler creates a handler applying request overrides to defaults
func NewRunHandler(pipeline *app.PipelineService, defaults stage.PipelineConfig, logger *internal.Logger) *RunHandler {
	return &RunHandler{
		pipeline: pipeline,
		defaults: defaults,
		logger:   logger.WithComponent("api"),
	}
}

// CreateRun handles POST /api/v1/runs
func (h *RunHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	req := &RunRequest{}
	if err := render.Bind(r, req); err != nil {
		render.Render(w, r, errInvalidRequest(err))
		return
	}

	result, err := h.pipeline.Run(r.Context(), req.PipelineConfig(h.defaults), req.Activities())
	if err != nil {
		h.logger.Warn("run rejected: %v", err)
		render.Render(w, r, errFromAppError(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

// ListDescriptors handles GET /api/v1/descriptors
func (h *RunHandler) ListDescriptors(w http.ResponseWriter, r *http.Request) {
	names := descriptor.All()
	out := make([]DescriptorInfo, len(names))
	for i, n := range names {
		out[i] = DescriptorInfo{Name: n.String(), Description: n.Description()}
	}
	render.JSON(w, r, out)
}

// Health handles GET /healthz
func (h *RunHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status": "ok",
		"parser": h.pipeline.ParserName(),
	})
}
