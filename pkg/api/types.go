package api

import (
	"github.com/zuodh/OpenTSDBMeta/pkg/codec"
)

// APIResponse is the JSON envelope for every endpoint.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// MetaRequest is the body of a PUT /api/v1/meta call.
type MetaRequest struct {
	Metric string            `json:"metric"`
	Tags   map[string]string `json:"tags"`
	TSUID  string            `json:"tsuid"` // hex
}

// MetaResponse is the JSON rendering of a stored record.
type MetaResponse struct {
	Metric string            `json:"metric"`
	Tags   map[string]string `json:"tags"`
	TSUID  string            `json:"tsuid"` // uppercase hex
}

// ExtractRequest is the body of a POST /api/v1/rowkey/tsuid call.
type ExtractRequest struct {
	RowKey string `json:"rowkey"` // hex-encoded composite row key
}

// ExtractResponse carries the identifier extracted from a composite row key.
type ExtractResponse struct {
	TSUID string `json:"tsuid"` // uppercase hex, empty for an empty row key
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string // empty disables authentication
}

// MetaStore is the storage surface the API needs.
type MetaStore interface {
	Put(*codec.TSMeta) error
	Get(hex string) (*codec.TSMeta, error)
	Delete(hex string) error
	Scan(prefix string, limit int) ([]*codec.TSMeta, error)
	FindByMetric(metric string) ([]*codec.TSMeta, error)
	Metrics() []string
	Len() (int, error)
}

func metaResponse(m *codec.TSMeta) MetaResponse {
	return MetaResponse{
		Metric: m.Metric(),
		Tags:   m.TagMap(),
		TSUID:  m.TSUIDHex(),
	}
}
