// internal/workers/rag/answer-query/handler.go
package answerquery

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	apperrors "rag-search/internal/common/errors"
	"rag-search/internal/common/logger"
	"rag-search/internal/common/validation"
	"rag-search/internal/models"
	"rag-search/internal/pipeline"
	"rag-search/pkg/registry"
)

const (
	TaskType = "answer-query"
)

type Answerer interface {
	Answer(ctx context.Context, query string) (*models.AnswerResponse, error)
}

type Handler struct {
	config       *Config
	answerer     Answerer
	registry     *registry.ActivityRegistry
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, answerer Answerer, reg *registry.ActivityRegistry, log logger.Logger) *Handler {
	l := log.With(map[string]interface{}{
		"taskType": TaskType,
	})
	return &Handler{
		config:       config,
		answerer:     answerer,
		registry:     reg,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var vars map[string]interface{}
	if err := json.Unmarshal([]byte(job.Variables), &vars); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, apperrors.NewInvalidInputError("job variables are not a JSON object"))
		return
	}

	input := &Input{}
	input.Query, _ = vars["query"].(string)
	input.RequestID, _ = vars["requestId"].(string)

	if err := h.validate(vars); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

// Execute validates input and runs the pipeline without a broker.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	vars := map[string]interface{}{"query": input.Query}
	if input.RequestID != "" {
		vars["requestId"] = input.RequestID
	}
	if err := h.validate(vars); err != nil {
		return nil, err
	}
	return h.execute(ctx, input)
}

func (h *Handler) validate(vars map[string]interface{}) error {
	result, err := validation.ValidateActivityInput(h.registry, registry.ActivityAnswerQuery, vars)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !result.Valid {
		return apperrors.NewInvalidInputError(result.Summary())
	}
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.RequestID != "" {
		ctx = pipeline.WithRequestID(ctx, input.RequestID)
	}

	resp, err := h.answerer.Answer(ctx, input.Query)
	if err != nil {
		return nil, err
	}
	return &Output{Query: resp.Query, Answer: resp.Answer}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to build complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":      job.Key,
		"answerChars": len(output.Answer),
	})
}
