package http

import (
	"errors"
	"net/http"
	"time"

	"ledgerdash/internal/ledger"
	"ledgerdash/internal/log"
	"ledgerdash/internal/services"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, NewJSONResponse().Body(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	}))
}

// handleReady reports ready once the first ingestion happened
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	stats := s.queryCache.Stats()
	body := map[string]any{
		"status":     "ready",
		"generation": s.dashboard.Generation(),
		"query_cache": map[string]any{
			"size":   stats.Size,
			"hits":   stats.Hits,
			"misses": stats.Misses,
		},
	}
	b := NewJSONResponse()
	if !s.dashboard.Ready() {
		body["status"] = "not_ready"
		b.Status(http.StatusServiceUnavailable)
	}
	s.write(w, r, b.Body(body))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.writeSnapshot(w, r)
}

// handleFilter commits new criteria. An unparsable date answers 422 and the
// dashboard keeps its previous results.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		s.write(w, r, BadRequestError(ErrorInvalidRequest, "malformed request body"))
		return
	}
	f := p.Filter()

	if err := s.dashboard.ApplyFilter(r.Context(), f.Start, f.End, f.Team, f.Employee); err != nil {
		if errors.Is(err, ledger.ErrInvalidDateRange) {
			s.write(w, r, UnprocessableEntityError(ErrorInvalidDateRange, err.Error()))
			return
		}
		s.fail(w, r, log.OpFilter, err)
		return
	}
	s.writeSnapshot(w, r)
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, NewJSONResponse().Body(map[string]any{
		"all":   ledger.AllTeams,
		"teams": newTeams(s.dashboard.Index()),
	}))
}

// handleEmployees lists the employee choices for a team; no team means every
// team, an empty one the employees recorded without a team.
func (s *Server) handleEmployees(w http.ResponseWriter, r *http.Request) {
	team, ok := valuesLookup(r.URL.Query())("team")
	if !ok {
		team = ledger.AllTeams
	}
	s.write(w, r, NewJSONResponse().Body(map[string]any{
		"team":      team,
		"any":       ledger.AnyEmployee,
		"employees": s.dashboard.Index().Employees(team),
	}))
}

func (s *Server) handleToggleCategory(w http.ResponseWriter, r *http.Request) {
	label := sanitizeInput(r.URL.Query().Get("category"))
	if label == "" {
		s.write(w, r, BadRequestError(ErrorInvalidRequest, "category is required"))
		return
	}
	if err := s.dashboard.ToggleCategory(r.Context(), label); err != nil {
		if errors.Is(err, services.ErrUnknownCategory) {
			s.write(w, r, BadRequestError(ErrorUnknownCategory, err.Error()))
			return
		}
		s.fail(w, r, log.OpToggle, err)
		return
	}
	s.writeSnapshot(w, r)
}

func (s *Server) handleToggleAll(w http.ResponseWriter, r *http.Request) {
	s.dashboard.ToggleAllCategories(r.Context())
	s.writeSnapshot(w, r)
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	if err := s.dashboard.SortBy(r.Context(), r.URL.Query().Get("column")); err != nil {
		if errors.Is(err, ledger.ErrUnknownColumn) {
			s.write(w, r, BadRequestError(ErrorUnknownColumn, err.Error()))
			return
		}
		s.fail(w, r, log.OpSort, err)
		return
	}
	s.writeSnapshot(w, r)
}

// handleQuery runs a stateless query. Results are cached per data generation.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		kind := ErrorInvalidRequest
		if errors.Is(err, ledger.ErrUnknownColumn) {
			kind = ErrorUnknownColumn
		}
		s.write(w, r, BadRequestError(kind, err.Error()))
		return
	}

	key := QueryCacheKey(s.dashboard.Generation(), q)
	if cached, ok := s.queryCache.Get(key); ok {
		s.write(w, r, NewJSONResponse().Header("X-Cache", "HIT").Body(cached))
		return
	}

	res, err := s.dashboard.Query(r.Context(), q)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidDateRange):
			s.write(w, r, UnprocessableEntityError(ErrorInvalidDateRange, err.Error()))
			return
		case errors.Is(err, services.ErrUnknownCategory):
			s.write(w, r, BadRequestError(ErrorUnknownCategory, err.Error()))
			return
		}
		s.fail(w, r, log.OpQuery, err)
		return
	}

	resp := newQueryResponse(res, s.dashboard.Vocabulary(), s.dashboard.Location())
	// The generation may have moved while computing; key by what was computed
	s.queryCache.Set(QueryCacheKey(res.Generation, q), resp)
	s.write(w, r, NewJSONResponse().Header("X-Cache", "MISS").Body(resp))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	n, err := s.dashboard.Reload(r.Context())
	switch {
	case errors.Is(err, services.ErrNoSource):
		s.write(w, r, ServiceUnavailableError(ErrorSourceFailed, err.Error()))
		return
	case err != nil:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Refresh failed",
			log.FieldOperation, log.OpReload, log.FieldError, err)
		s.write(w, r, ErrorResponse(http.StatusBadGateway, ErrorSourceFailed, "failed to load records from source"))
		return
	}
	s.write(w, r, NewJSONResponse().Body(map[string]any{
		"records":    n,
		"generation": s.dashboard.Generation(),
	}))
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
	s.write(w, r, ErrorResponse(http.StatusTooManyRequests, ErrorRateLimited, "rate limit exceeded, please try again later"))
}

func (s *Server) writeSnapshot(w http.ResponseWriter, r *http.Request) {
	resp := newDashboardResponse(s.dashboard.Snapshot(), s.dashboard.Vocabulary(), s.dashboard.Location())
	s.write(w, r, NewJSONResponse().Body(resp))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
		log.FieldOperation, op, log.FieldError, err)
	s.write(w, r, InternalServerError("internal error"))
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, b *JSONResponseBuilder) {
	if err := b.Write(w); err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Failed to write response", log.FieldError, err)
	}
}
