package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/zuodh/OpenTSDBMeta/pkg/codec"
	"github.com/zuodh/OpenTSDBMeta/pkg/storage"
	"github.com/zuodh/OpenTSDBMeta/pkg/tsuid"
)

// Server holds the API server state.
type Server struct {
	store   MetaStore
	layout  tsuid.Layout
	config  ServerConfig
	metrics *Metrics
	log     zerolog.Logger
}

// NewServer creates a new API server. metrics may be nil to disable
// instrumentation.
func NewServer(store MetaStore, layout tsuid.Layout, config ServerConfig, metrics *Metrics, log zerolog.Logger) *Server {
	return &Server{
		store:   store,
		layout:  layout,
		config:  config,
		metrics: metrics,
		log:     log,
	}
}

func (s *Server) recordStoreOp(op string, success bool, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordStoreOperation(op, success, time.Since(start))
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handlePutMeta validates and stores a metadata record.
func (s *Server) handlePutMeta(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req MetaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.recordStoreOp("put", false, start)
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	uid, err := tsuid.Decode(req.TSUID)
	if err != nil {
		s.recordStoreOp("put", false, start)
		sendError(w, fmt.Sprintf("Invalid tsuid hex: %v", err), http.StatusBadRequest)
		return
	}

	meta, err := codec.NewTSMeta(req.Metric, req.Tags, uid)
	if err != nil {
		s.recordStoreOp("put", false, start)
		sendError(w, fmt.Sprintf("Invalid record: %v", err), http.StatusBadRequest)
		return
	}

	if err := s.store.Put(meta); err != nil {
		s.recordStoreOp("put", false, start)
		s.log.Error().Err(err).Str("tsuid", meta.TSUIDHex()).Msg("put failed")
		sendError(w, "Failed to store record", http.StatusInternalServerError)
		return
	}

	s.recordStoreOp("put", true, start)
	s.log.Debug().Str("tsuid", meta.TSUIDHex()).Str("metric", meta.Metric()).Msg("record stored")
	sendSuccess(w, metaResponse(meta))
}

// handleGetMeta looks up a record by TSUID hex.
func (s *Server) handleGetMeta(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	hex := strings.ToUpper(chi.URLParam(r, "tsuid"))
	if hex == "" {
		s.recordStoreOp("get", false, start)
		sendError(w, "tsuid is required", http.StatusBadRequest)
		return
	}

	meta, err := s.store.Get(hex)
	if err != nil {
		s.recordStoreOp("get", false, start)
		if errors.Is(err, storage.ErrNotFound) {
			sendError(w, "TSUID not found", http.StatusNotFound)
			return
		}
		s.log.Error().Err(err).Str("tsuid", hex).Msg("get failed")
		sendError(w, "Failed to read record", http.StatusInternalServerError)
		return
	}

	s.recordStoreOp("get", true, start)
	sendSuccess(w, metaResponse(meta))
}

// handleDeleteMeta removes a record.
func (s *Server) handleDeleteMeta(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	hex := strings.ToUpper(chi.URLParam(r, "tsuid"))
	if hex == "" {
		s.recordStoreOp("delete", false, start)
		sendError(w, "tsuid is required", http.StatusBadRequest)
		return
	}

	if err := s.store.Delete(hex); err != nil {
		s.recordStoreOp("delete", false, start)
		s.log.Error().Err(err).Str("tsuid", hex).Msg("delete failed")
		sendError(w, "Failed to delete record", http.StatusInternalServerError)
		return
	}

	s.recordStoreOp("delete", true, start)
	sendSuccess(w, map[string]string{"message": "Record deleted"})
}

// handleScanMeta lists records in storage order, filtered by TSUID hex
// prefix or by exact metric name.
func (s *Server) handleScanMeta(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	prefix := strings.ToUpper(r.URL.Query().Get("prefix"))
	metric := r.URL.Query().Get("metric")
	if prefix != "" && metric != "" {
		sendError(w, "prefix and metric are mutually exclusive", http.StatusBadRequest)
		return
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l <= 0 {
			sendError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = l
	}

	var records []*codec.TSMeta
	var err error
	if metric != "" {
		records, err = s.store.FindByMetric(metric)
		if err == nil && len(records) > limit {
			records = records[:limit]
		}
	} else {
		records, err = s.store.Scan(prefix, limit)
	}
	if err != nil {
		s.recordStoreOp("scan", false, start)
		s.log.Error().Err(err).Str("prefix", prefix).Str("metric", metric).Msg("scan failed")
		sendError(w, "Failed to scan records", http.StatusInternalServerError)
		return
	}

	out := make([]MetaResponse, 0, len(records))
	for _, m := range records {
		out = append(out, metaResponse(m))
	}

	s.recordStoreOp("scan", true, start)
	sendSuccess(w, map[string]interface{}{"records": out, "count": len(out)})
}

// handleExtract extracts the TSUID from a hex-encoded composite row key.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if s.metrics != nil {
			s.metrics.RecordExtraction(false)
		}
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	rowKey, err := tsuid.Decode(req.RowKey)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordExtraction(false)
		}
		sendError(w, fmt.Sprintf("Invalid rowkey hex: %v", err), http.StatusBadRequest)
		return
	}

	hex, err := s.layout.ExtractTSUIDHex(rowKey)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordExtraction(false)
		}
		sendError(w, fmt.Sprintf("Extraction failed: %v", err), http.StatusBadRequest)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordExtraction(true)
	}
	sendSuccess(w, ExtractResponse{TSUID: hex})
}

// handleStats reports record and metric counts.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Len()
	if err != nil {
		sendError(w, "Failed to count records", http.StatusInternalServerError)
		return
	}
	if s.metrics != nil {
		s.metrics.UpdateStoreStats(n)
	}
	sendSuccess(w, map[string]int{
		"records": n,
		"metrics": len(s.store.Metrics()),
	})
}
