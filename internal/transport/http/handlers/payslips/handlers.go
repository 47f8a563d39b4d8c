package payslipshandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"payslips/internal/domain/dispatch"
	"payslips/internal/domain/payroll"
	"payslips/internal/platform/spreadsheet"
	"payslips/internal/requestctx"
	"payslips/internal/transport/http/api"
	"payslips/internal/transport/http/shared"
)

const (
	maxPreviewRows  = 500
	multipartMemory = 8 << 20
)

var workbookExtensions = []string{".xlsx", ".xls"}

type Handler struct {
	Service     *dispatch.Service
	PreviewRows int
	Log         logrus.FieldLogger

	running sync.Mutex
}

func NewHandler(svc *dispatch.Service, previewRows int, log logrus.FieldLogger) *Handler {
	return &Handler{Service: svc, PreviewRows: previewRows, Log: log}
}

// RegisterRoutes mounts the payslip endpoints behind guard.
func (h *Handler) RegisterRoutes(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/payslips", func(r chi.Router) {
		r.Use(guard)
		r.Post("/preview", h.HandlePreview)
		r.Post("/dispatch", h.HandleDispatch)
	})
}

func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	v := shared.NewValidator()
	page := v.Pagination(r, h.PreviewRows, maxPreviewRows)
	if v.Reject(w, reqID) {
		return
	}
	records, ok := h.loadUpload(w, r, false)
	if !ok {
		return
	}
	api.Success(w, dispatch.Preview(records, page.Limit, page.Offset), reqID)
}

type streamLine struct {
	Outcome *dispatch.Outcome `json:"outcome,omitempty"`
	Summary *dispatch.Summary `json:"summary,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// HandleDispatch sends one batch and streams each outcome as a JSON line. The
// batch keeps going if the client disconnects.
func (h *Handler) HandleDispatch(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	log := requestctx.Logger(r.Context(), h.Log)

	if !h.running.TryLock() {
		api.Fail(w, http.StatusConflict, "batch_running", "another payslip batch is running", reqID)
		return
	}
	defer h.running.Unlock()

	records, ok := h.loadUpload(w, r, true)
	if !ok {
		return
	}
	month := r.FormValue("month")

	stream := &ndjsonStream{w: w, rc: http.NewResponseController(w)}
	reporter := dispatch.Reporters(
		dispatch.LogReporter(log),
		dispatch.ReporterFunc(func(o dispatch.Outcome) { stream.write(streamLine{Outcome: &o}) }),
	)

	summary, err := h.Service.Send(context.WithoutCancel(r.Context()), records, month, reporter)
	if err != nil {
		log.WithError(err).Error("payslip batch failed")
		if !stream.started {
			status, code := batchError(err)
			api.Fail(w, status, code, err.Error(), reqID)
			return
		}
		stream.write(streamLine{Summary: &summary, Error: err.Error()})
		return
	}
	stream.write(streamLine{Summary: &summary})
}

func batchError(err error) (int, string) {
	switch {
	case errors.Is(err, dispatch.ErrMonthRequired):
		return http.StatusBadRequest, "month_required"
	default:
		return http.StatusBadGateway, "batch_failed"
	}
}

// loadUpload parses the multipart form and maps the workbook. It writes the
// error response itself and reports whether the caller may continue.
func (h *Handler) loadUpload(w http.ResponseWriter, r *http.Request, needMonth bool) ([]payroll.Record, bool) {
	reqID := requestctx.GetRequestID(r.Context())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "upload too large", reqID)
			return nil, false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "multipart form with a file field expected", reqID)
		return nil, false
	}

	file, header, err := r.FormFile("file")
	v := shared.NewValidator()
	if err != nil {
		v.Add("file", "is required")
	} else {
		defer file.Close()
		v.Extension("file", header.Filename, workbookExtensions)
	}
	if needMonth {
		v.Required("month", r.FormValue("month"), "is required")
	}
	if v.Reject(w, reqID) {
		return nil, false
	}

	records, err := h.Service.Load(file, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, payroll.ErrColumnMismatch):
			api.Fail(w, http.StatusUnprocessableEntity, "column_mismatch", err.Error(), reqID)
		case errors.Is(err, spreadsheet.ErrEmptyWorksheet), errors.Is(err, spreadsheet.ErrNoWorksheet):
			api.Fail(w, http.StatusUnprocessableEntity, "empty_workbook", err.Error(), reqID)
		default:
			api.Fail(w, http.StatusBadRequest, "invalid_workbook", "workbook could not be read", reqID)
		}
		return nil, false
	}
	return records, true
}

type ndjsonStream struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	started bool
}

func (s *ndjsonStream) write(line streamLine) {
	if !s.started {
		s.w.Header().Set("Content-Type", "application/x-ndjson")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}
	if err := json.NewEncoder(s.w).Encode(line); err != nil {
		return
	}
	_ = s.rc.Flush()
}
