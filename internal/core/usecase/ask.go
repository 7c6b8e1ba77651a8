package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/documind-ai/documind/internal/core/domain"
	"github.com/documind-ai/documind/internal/core/ports"
)

const (
	defaultAskTopK     = 5
	contextTokenBudget = 3000
	answerTemperature  = 0.1
	answerMaxTokens    = 500
	sourcePreviewChars = 200
)

// AskService runs the full question-answering pipeline: retrieval,
// context assembly, generation, citation extraction and analytics logging.
type AskService struct {
	search   ports.DocumentSearcher
	llm      ports.CompletionProvider
	queryLog ports.QueryLogStore
	logger   *slog.Logger

	models       map[string]string
	defaultModel string
}

func NewAskService(
	search ports.DocumentSearcher,
	llm ports.CompletionProvider,
	queryLog ports.QueryLogStore,
	models map[string]string,
	defaultModel string,
	logger *slog.Logger,
) *AskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AskService{
		search:       search,
		llm:          llm,
		queryLog:     queryLog,
		logger:       logger,
		models:       models,
		defaultModel: defaultModel,
	}
}

func (s *AskService) Ask(ctx context.Context, req domain.AskRequest) (*domain.AskResult, error) {
	start := time.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ask", errors.New("question cannot be empty"))
	}

	modelID, err := s.resolveModel(req.Model)
	if err != nil {
		return nil, err
	}

	topK := req.TopK
	if topK <= 0 {
		topK = defaultAskTopK
	}
	mode := req.Mode
	if mode == "" {
		mode = domain.ModeSemantic
	}

	results, err := s.search.Search(ctx, domain.SearchRequest{
		Query: question,
		Mode:  mode,
		TopK:  topK,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	// Zero retrieved chunks still proceed to generation with empty context;
	// the prompt instructs the model to say it lacks information.
	contextBlock := AssembleContext(results, contextTokenBudget)
	prompt := buildQAPrompt(question, contextBlock)

	answer, err := s.llm.Complete(ctx, modelID, prompt, answerTemperature, answerMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	summary := ExtractCitations(answer, results)
	sources := sourceRefs(results)
	elapsed := time.Since(start).Seconds()

	s.logQuery(ctx, domain.QueryLogEntry{
		Question:     question,
		Answer:       answer,
		Model:        modelID,
		Sources:      sources,
		ResponseTime: elapsed,
		CreatedAt:    time.Now().UTC(),
	})

	return &domain.AskResult{
		Answer:        answer,
		Citations:     summary.Citations,
		Sources:       sources,
		Query:         question,
		Model:         modelID,
		SearchType:    mode,
		ContextChunks: len(results),
		ResponseTime:  round3(elapsed),
		Timestamp:     time.Now().UTC(),
	}, nil
}

// Compare answers the same question with several models over one shared
// retrieval. A model failure is captured in its own slot and never fails
// the whole comparison.
func (s *AskService) Compare(ctx context.Context, question string, models []string) (*domain.CompareResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "compare models", errors.New("question cannot be empty"))
	}
	if len(models) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "compare models", errors.New("at least one model must be specified"))
	}

	results, err := s.search.Search(ctx, domain.SearchRequest{
		Query: question,
		Mode:  domain.ModeSemantic,
		TopK:  defaultAskTopK,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	contextBlock := AssembleContext(results, contextTokenBudget)
	prompt := buildQAPrompt(question, contextBlock)

	answers := make(map[string]domain.ModelAnswer, len(models))
	for _, alias := range models {
		modelID, ok := s.models[alias]
		if !ok {
			answers[alias] = domain.ModelAnswer{
				Status: "error",
				Error:  fmt.Sprintf("unknown model: %s", alias),
			}
			continue
		}

		modelStart := time.Now()
		answer, err := s.llm.Complete(ctx, modelID, prompt, answerTemperature, answerMaxTokens)
		if err != nil {
			answers[alias] = domain.ModelAnswer{
				ModelID: modelID,
				Status:  "error",
				Error:   err.Error(),
			}
			continue
		}
		answers[alias] = domain.ModelAnswer{
			ModelID:      modelID,
			Answer:       answer,
			ResponseTime: round3(time.Since(modelStart).Seconds()),
			Status:       "success",
		}
	}

	return &domain.CompareResult{
		Query:         question,
		Sources:       sourceRefs(results),
		ContextChunks: len(results),
		Results:       answers,
		Timestamp:     time.Now().UTC(),
	}, nil
}

func (s *AskService) resolveModel(alias string) (string, error) {
	if alias == "" {
		alias = s.defaultModel
	}
	if modelID, ok := s.models[alias]; ok {
		return modelID, nil
	}
	// Accept fully qualified model ids as-is.
	if strings.Contains(alias, "/") {
		return alias, nil
	}
	return "", domain.WrapError(domain.ErrInvalidInput, "ask", fmt.Errorf("unknown model %q", alias))
}

// logQuery writes the analytics record; failures are warnings only and
// never abort the answer path.
func (s *AskService) logQuery(ctx context.Context, entry domain.QueryLogEntry) {
	if s.queryLog == nil {
		return
	}
	if err := s.queryLog.Insert(ctx, entry); err != nil {
		s.logger.Warn("failed to log query", "error", err)
	}
}

func sourceRefs(results []domain.ScoredResult) []domain.SourceRef {
	refs := make([]domain.SourceRef, 0, len(results))
	for _, r := range results {
		preview := r.Text
		if len(preview) > sourcePreviewChars {
			preview = preview[:sourcePreviewChars] + "..."
		}
		refs = append(refs, domain.SourceRef{
			ChunkID:     r.ChunkID,
			Document:    r.DocumentTitle,
			Chunk:       r.Position,
			Similarity:  r.Similarity,
			RerankScore: r.RerankScore,
			Preview:     preview,
		})
	}
	return refs
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
