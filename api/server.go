package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"volt-sentinel/battery"
	"volt-sentinel/intake"
	"volt-sentinel/logger"
)

const defaultMaxBodyBytes = 1 << 20

// Server serves the battery report API.
type Server struct {
	assembler *battery.Assembler
	log       logger.Logger
	maxBody   int64
}

// NewServer creates a report API server. maxBodyBytes caps uploaded log
// size; 0 selects the default of 1 MiB.
func NewServer(assembler *battery.Assembler, log logger.Logger, maxBodyBytes int64) *Server {
	if assembler == nil {
		assembler = battery.NewAssembler(battery.AssemblerConfig{})
	}
	if log == nil {
		log = logger.Nop()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &Server{
		assembler: assembler,
		log:       log,
		maxBody:   maxBodyBytes,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/battery_report", s.handleBatteryReport)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBatteryReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	reqID := "req-" + uuid.New().String()[:8]
	w.Header().Set("X-Request-Id", reqID)
	log := s.log.WithFields(logger.String("request_id", reqID))

	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	wire, err := intake.Decode(body)
	if err != nil {
		log.Warn("report.decode_failed", logger.Err(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := wire.Validate(); err != nil {
		log.Warn("report.invalid_log",
			logger.String("vehicle_id", wire.VehicleID),
			logger.Err(err),
		)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.assembler.Generate(wire.Diagnostic())
	if err != nil {
		if errors.Is(err, battery.ErrInsufficientData) {
			log.Warn("report.insufficient_data", logger.String("vehicle_id", wire.VehicleID))
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		log.Error("report.generate_failed",
			logger.String("vehicle_id", wire.VehicleID),
			logger.Err(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}

	log.Info("report.generated",
		logger.String("vehicle_id", report.VehicleID),
		logger.Float64("soh", report.SOH.SOHPercent),
		logger.String("method", string(report.SOH.Method)),
		logger.Int("anomalies", len(report.Anomalies)),
	)
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
