package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/okian/pldash/internal/domain/export"
	"github.com/okian/pldash/pkg/logger"
)

// ExportHandler serves the export attachment.
type ExportHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies, log logger.Logger) *ExportHandler {
	return &ExportHandler{deps: deps, log: log}
}

// HandleExport handles GET /api/export?season=&teams=&format= requests.
// The body is rendered in full before any header is sent so failures still
// produce a JSON error.
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeFailure(ctx, h.log, w, "", err)
		return
	}
	sel := parseSelection(r)
	req, err := h.deps.ResolveRequest(ctx, sel.season, sel.teams)
	if err != nil {
		writeFailure(ctx, h.log, w, "", err)
		return
	}

	var buf bytes.Buffer
	if err := h.deps.Export(ctx, &buf, f, req); err != nil {
		writeFailure(ctx, h.log, w, req.Season, err)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.FileName()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
