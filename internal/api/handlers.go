package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"colmap/internal/ddl"
	"colmap/internal/embed"
	"colmap/internal/mapper"
	"colmap/internal/payload"
	"colmap/internal/report"
)

// mapRequest is the body of POST /v1/map. JSON may be an embedded document or
// a string holding the document text.
type mapRequest struct {
	DDL         string          `json:"ddl"`
	JSON        json.RawMessage `json:"json"`
	UseSemantic *bool           `json:"use_semantic,omitempty"`
	Threshold   *float64        `json:"threshold,omitempty"`
	FuzzyCutoff *float64        `json:"fuzzy_cutoff,omitempty"`
	Scorer      *string         `json:"scorer,omitempty"`
	NaiveSplit  *bool           `json:"naive_split,omitempty"`
}

type columnsRequest struct {
	DDL        string `json:"ddl"`
	NaiveSplit *bool  `json:"naive_split,omitempty"`
}

type columnsResponse struct {
	Table   string       `json:"table"`
	Columns []ddl.Column `json:"columns"`
}

type keysRequest struct {
	JSON json.RawMessage `json:"json"`
}

type keysResponse struct {
	Keys []string `json:"keys"`
}

type errorResponse struct {
	Error     string   `json:"error"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	var req mapRequest
	if !s.decode(w, r, &req) {
		return
	}

	opts := s.opts.Defaults
	if req.UseSemantic != nil {
		opts.UseSemantic = *req.UseSemantic
	}

	if req.Threshold != nil {
		opts.Threshold = *req.Threshold
	}

	if req.FuzzyCutoff != nil {
		opts.FuzzyCutoff = *req.FuzzyCutoff
	}

	if req.Scorer != nil {
		opts.Scorer = *req.Scorer
	}

	if req.NaiveSplit != nil {
		opts.DDL.Split = ddl.SplitFor(*req.NaiveSplit)
	}

	res, err := s.mapper.Map(r.Context(), req.DDL, documentText(req.JSON), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, report.FromResult(res))
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	var req columnsRequest
	if !s.decode(w, r, &req) {
		return
	}

	opts := s.opts.Defaults.DDL
	if req.NaiveSplit != nil {
		opts.Split = ddl.SplitFor(*req.NaiveSplit)
	}

	table, err := ddl.ParseWith(req.DDL, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	columns := table.Columns
	if columns == nil {
		columns = []ddl.Column{}
	}

	s.writeJSON(w, http.StatusOK, columnsResponse{Table: table.Name, Columns: columns})
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	var req keysRequest
	if !s.decode(w, r, &req) {
		return
	}

	keys, err := payload.Keys([]byte(documentText(req.JSON)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if keys == nil {
		keys = []string{}
	}

	s.writeJSON(w, http.StatusOK, keysResponse{Keys: keys})
}

// documentText returns the JSON document carried by raw: the decoded string
// when raw is a JSON string, raw itself otherwise.
func documentText(raw json.RawMessage) string {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}

	return string(raw)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error:     fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
				RequestID: r.Header.Get(RequestIDHeader),
			})

			return false
		}

		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:     "invalid request body: " + err.Error(),
			RequestID: r.Header.Get(RequestIDHeader),
		})

		return false
	}

	return true
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var (
		parseErr     *ddl.ParseError
		malformedErr *payload.MalformedInputError
		optionsErr   *mapper.OptionsError
		embedErr     *embed.Error
	)

	switch {
	case errors.As(err, &parseErr), errors.As(err, &malformedErr),
		errors.As(err, &optionsErr), errors.Is(err, mapper.ErrNoColumns):
		return http.StatusBadRequest
	case errors.As(err, &embedErr):
		if embedErr.Transient {
			return http.StatusServiceUnavailable
		}

		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error(), RequestID: r.Header.Get(RequestIDHeader)}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			resp.Details = append(resp.Details, e.Error())
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("mapping request failed", "error", err, "status", status,
			"request_id", resp.RequestID)
	}

	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}
