package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	meterv1 "github.com/dachrisch/energy.consumption-sub001/internal/api/meterv1"
	applog "github.com/dachrisch/energy.consumption-sub001/internal/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const upstreamTimeout = 5 * time.Second

type Server struct {
	client ConsumptionClient
	mux    *http.ServeMux
	logger *slog.Logger
}

func New(client ConsumptionClient, logger *slog.Logger) *Server {
	s := &Server{
		client: client,
		mux:    http.NewServeMux(),
		logger: applog.WithComponent(logger, applog.ComponentHTTP),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := newRequestID()

	w.Header().Set("X-Request-Id", reqID)
	rr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	defer func() {
		if rec := recover(); rec != nil {
			rr.status = http.StatusInternalServerError

			// Best-effort response. If headers/body were already written, we can
			// only log.
			if !rr.wroteHeader {
				if strings.HasPrefix(r.URL.Path, "/api") {
					writeAPIError(rr, http.StatusInternalServerError, "internal_error", "internal error")
				} else {
					http.Error(rr, "internal error", http.StatusInternalServerError)
				}
			}
			s.logger.Error("panic handling request",
				"method", r.Method, "path", r.URL.Path, applog.FieldRequestID, reqID,
				"panic", rec, "stack", string(debug.Stack()),
			)
		}

		dur := time.Since(start)
		observeHTTPRequest(r, rr.status, dur)

		// Keep health checks + metrics endpoint quiet.
		if r.URL.Path != "/healthz" && r.URL.Path != "/metrics" {
			s.logger.Info("request",
				"method", r.Method, "path", r.URL.Path, "status", rr.status,
				"duration", dur.Truncate(time.Millisecond).String(), applog.FieldRequestID, reqID,
			)
		}
	}()

	s.mux.ServeHTTP(rr, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/monthly", s.handleMonthly)
	s.mux.HandleFunc("/api/consumption", s.handleConsumption)
	s.mux.HandleFunc("/api/consumption/batch", s.handleConsumptionBatch)
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/", s.handleIndex)
}

// handleMonthly returns the reconstructed end-of-month readings.
// Query params: type (power|gas|water), year.
func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	req, err := parseYearRequest(r.URL.Query().Get("type"), r.URL.Query().Get("year"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}

	var resp *meterv1.MonthlyReadingsResponse
	if !s.upstream(w, r, "GetMonthlyReadings", func(ctx context.Context) (err error) {
		resp, err = s.client.GetMonthlyReadings(ctx, req)
		return err
	}) {
		return
	}

	_ = writeJSON(w, http.StatusOK, toMonthlyJSON(resp))
}

// handleConsumption returns month-over-month consumption for one type and year.
func (s *Server) handleConsumption(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	req, err := parseYearRequest(r.URL.Query().Get("type"), r.URL.Query().Get("year"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}

	var resp *meterv1.MonthlyConsumptionResponse
	if !s.upstream(w, r, "GetMonthlyConsumption", func(ctx context.Context) (err error) {
		resp, err = s.client.GetMonthlyConsumption(ctx, req)
		return err
	}) {
		return
	}
	_ = writeJSON(w, http.StatusOK, toConsumptionJSON(resp))
}

// handleConsumptionBatch serves several type/year pairs at once:
// /api/consumption/batch?keys=power:2023,gas:2023
func (s *Server) handleConsumptionBatch(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	req, err := parseBatchKeys(r.URL.Query().Get("keys"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}

	var resp *meterv1.BatchResponse
	if !s.upstream(w, r, "GetConsumptionBatch", func(ctx context.Context) (err error) {
		resp, err = s.client.GetConsumptionBatch(ctx, req)
		return err
	}) {
		return
	}

	out := batchResponseJSON{Results: make([]consumptionResponseJSON, 0, len(resp.Results))}
	for _, res := range resp.Results {
		if res == nil {
			writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream returned empty result")
			return
		}
		out.Results = append(out.Results, toConsumptionJSON(res))
	}
	_ = writeJSON(w, http.StatusOK, out)
}

// upstream runs one gRPC call and maps failures to API errors. It reports
// whether the call succeeded.
func (s *Server) upstream(w http.ResponseWriter, r *http.Request, method string, call func(context.Context) error) bool {
	ctx, cancel := context.WithTimeout(r.Context(), upstreamTimeout)
	defer cancel()

	start := time.Now()
	err := call(ctx)
	dur := time.Since(start)
	if err == nil {
		observeUpstreamGRPC(method, codes.OK.String(), dur)
		return true
	}

	code := codes.Unknown.String()
	if st, ok := status.FromError(err); ok {
		code = st.Code().String()
		switch st.Code() {
		case codes.InvalidArgument:
			observeUpstreamGRPC(method, code, dur)
			writeAPIError(w, http.StatusBadRequest, "invalid_argument", st.Message())
			return false
		case codes.DeadlineExceeded:
			observeUpstreamGRPC(method, code, dur)
			writeAPIError(w, http.StatusGatewayTimeout, "upstream_timeout", "upstream timeout")
			return false
		}
	}
	observeUpstreamGRPC(method, code, dur)
	s.logger.Warn("upstream call failed", "method", method, "code", code, applog.FieldError, err)
	writeAPIError(w, http.StatusBadGateway, "upstream_error", "upstream error")
	return false
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		// Keep API errors JSON.
		if strings.HasPrefix(r.URL.Path, "/api") {
			writeAPIError(w, http.StatusNotFound, "not_found", "not found")
			return
		}
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	return false
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(p)
}

func newRequestID() string {
	var b [6]byte // 12 hex chars
	if _, err := rand.Read(b[:]); err != nil {
		return "000000000000"
	}
	return hex.EncodeToString(b[:])
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	reqID := w.Header().Get("X-Request-Id")
	_ = writeJSON(w, status, apiErrorJSON{
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}
