// internal/api/query.go
package api

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "rag-search/internal/common/errors"
	"rag-search/internal/common/validation"
	"rag-search/internal/models"
	"rag-search/internal/pipeline"
	"rag-search/pkg/registry"
)

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := s.logger.With(map[string]interface{}{"requestId": pipeline.RequestIDFromContext(ctx)})

	var body map[string]interface{}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.writeError(w, apperrors.NewInvalidInputError("request body must be a JSON object"))
		return
	}

	result, err := validation.ValidateActivityInput(s.registry, registry.ActivityHTTPQuery, body)
	if err != nil {
		log.Error("request validation error", map[string]interface{}{"error": err})
		s.writeError(w, apperrors.NewInternalError(err))
		return
	}
	if !result.Valid {
		s.writeError(w, apperrors.NewInvalidInputError(result.Summary()))
		return
	}

	query, _ := body["query"].(string)
	resp, err := s.answerer.Answer(ctx, query)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeError maps err to its status. Internal error details are not sent.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	stdErr := apperrors.Normalize(err)
	body := models.ErrorResponse{
		Error: stdErr.Message,
		Code:  string(stdErr.Code),
	}
	if stdErr.Code != apperrors.ErrCodeInternal {
		body.Details = stdErr.Details
	}
	writeJSON(w, apperrors.HTTPStatus(stdErr.Code), body)
}
