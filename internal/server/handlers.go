package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ninerlabs/peermatch/internal/models"
	"github.com/ninerlabs/peermatch/internal/storage"
)

func (s *Server) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("upsert profile request",
		zap.String("id", profile.ID), zap.String("email", profile.Email))
	if err := s.indexer.UpsertProfile(r.Context(), &profile); err != nil {
		s.respondErrorFor(w, err, "profile upsert failed")
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": profile.ID, "status": "indexed"})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.storage.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondErrorFor(w, err, "profile lookup failed")
		return
	}
	s.respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete profile request", zap.String("id", id))
	if err := s.indexer.RemoveProfile(r.Context(), id); err != nil {
		s.respondErrorFor(w, err, "profile deletion failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if query.Limit == 0 {
		query.Limit = s.config.Search.DefaultLimit
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	response, err := s.engine.Search(r.Context(), &query)
	if err != nil {
		s.respondErrorFor(w, err, "search failed")
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	limit := s.config.Match.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	requesting, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		s.respondErrorFor(w, err, "profile lookup failed")
		return
	}
	candidates, err := s.storage.ListProfiles(ctx, 0, -1)
	if err != nil {
		s.respondErrorFor(w, err, "candidate listing failed")
		return
	}
	swiped, err := s.storage.ListSwipedIDs(ctx, id)
	if err != nil {
		s.respondErrorFor(w, err, "swipe lookup failed")
		return
	}

	matches, err := s.matcher.FindMatches(requesting, candidates, swiped, limit)
	if err != nil {
		s.respondErrorFor(w, err, "matching failed")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"profile_id": id,
		"matches":    matches,
		"total":      len(matches),
	})
}

type scoreRequest struct {
	ProfileA string `json:"profile_a"`
	ProfileB string `json:"profile_b"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProfileA == "" || req.ProfileB == "" {
		s.respondError(w, http.StatusBadRequest, "profile_a and profile_b are required")
		return
	}

	ctx := r.Context()
	a, err := s.storage.GetProfile(ctx, req.ProfileA)
	if err != nil {
		s.respondErrorFor(w, err, "profile lookup failed")
		return
	}
	b, err := s.storage.GetProfile(ctx, req.ProfileB)
	if err != nil {
		s.respondErrorFor(w, err, "profile lookup failed")
		return
	}
	s.respondJSON(w, http.StatusOK, s.scorer.Score(a, b))
}

type swipeRequest struct {
	SwiperID    string `json:"swiper_id"`
	CandidateID string `json:"candidate_id"`
	Action      string `json:"action"`
}

func (s *Server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	var req swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	swiper, err := s.storage.GetProfile(ctx, req.SwiperID)
	if err != nil {
		s.respondErrorFor(w, err, "swiper lookup failed")
		return
	}
	candidate, err := s.storage.GetProfile(ctx, req.CandidateID)
	if err != nil {
		s.respondErrorFor(w, err, "candidate lookup failed")
		return
	}

	// Record the similarity at swipe time so feedback can be analyzed later.
	result := s.scorer.Score(swiper, candidate)
	swipe := &models.SwipeFeedback{
		SwiperID:    req.SwiperID,
		CandidateID: req.CandidateID,
		Action:      req.Action,
		Score:       result.Overall,
		Components:  result.Components,
	}
	if err := s.storage.CreateSwipe(ctx, swipe); err != nil {
		s.respondErrorFor(w, err, "swipe recording failed")
		return
	}
	s.respondJSON(w, http.StatusCreated, swipe)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profileCount, err := s.storage.CountProfiles(ctx)
	if err != nil {
		s.respondErrorFor(w, err, "status: count profiles failed")
		return
	}
	swipeCount, err := s.storage.CountSwipes(ctx)
	if err != nil {
		s.respondErrorFor(w, err, "status: count swipes failed")
		return
	}
	keywordDocs, err := s.keywordIndex.DocCount()
	if err != nil {
		s.respondErrorFor(w, err, "status: keyword doc count failed")
		return
	}

	resp := map[string]interface{}{
		"profiles":            profileCount,
		"swipes":              swipeCount,
		"keyword_index_docs":  keywordDocs,
		"vector_index_size":   s.vectorIndex.Size(),
		"embedding_dimension": s.vectorIndex.Dimensions(),
		"config": map[string]interface{}{
			"embedding_provider": s.config.Embedding.Provider,
			"embedding_model":    s.config.Embedding.Model,
			"default_alpha":      s.config.Search.DefaultAlpha,
			"match_min_score":    s.config.Match.MinScore,
			"database_path":      s.config.Storage.DatabasePath,
			"bleve_index_path":   s.config.Storage.BleveIndexPath,
			"vector_index_path":  s.config.Storage.VectorIndexPath,
		},
	}
	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.BleveIndexPath,
		s.config.Storage.VectorIndexPath,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondErrorFor maps domain errors to HTTP statuses: validation problems
// are the client's fault, missing records are 404, and embedding service
// failures surface as a bad gateway.
func (s *Server) respondErrorFor(w http.ResponseWriter, err error, logMsg string) {
	var (
		ve *models.ValidationError
		nf *models.NotFoundError
		se *models.ServiceError
	)
	switch {
	case errors.As(err, &ve):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &nf):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &se):
		s.logger.Error(logMsg, zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error(logMsg, zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}
