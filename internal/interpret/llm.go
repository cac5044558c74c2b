package interpret

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/intecdocs/docfinder/internal/models"
)

// CategorySource provides the live category catalog for the prompt. Unlike
// the rule engine, the model must be told which categories exist.
type CategorySource func(ctx context.Context) []string

// LLMInterpreter interprets queries through an OpenAI-compatible
// chat-completions endpoint (Deepseek in the original deployment). The model
// is prompted to answer with the QueryParameters JSON shape; anything else is
// an error. A circuit breaker keeps a flapping endpoint from stalling every
// query.
type LLMInterpreter struct {
	baseURL    string
	model      string
	apiKey     string
	categories CategorySource
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*models.QueryParameters]
	logger     *zap.Logger
}

// LLMOption configures an LLMInterpreter.
type LLMOption func(*LLMInterpreter)

// WithHTTPClient overrides the HTTP client (tests point it at a local server).
func WithHTTPClient(c *http.Client) LLMOption {
	return func(l *LLMInterpreter) { l.httpClient = c }
}

// WithLLMLogger sets a logger for request diagnostics.
func WithLLMLogger(lg *zap.Logger) LLMOption {
	return func(l *LLMInterpreter) { l.logger = lg }
}

// NewLLMInterpreter creates an LLM-backed interpreter. categories supplies
// the catalog injected into the prompt on every call.
func NewLLMInterpreter(baseURL, model, apiKey string, timeout time.Duration, categories CategorySource, opts ...LLMOption) *LLMInterpreter {
	l := &LLMInterpreter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		categories: categories,
		httpClient: &http.Client{Timeout: timeout},
	}
	l.breaker = gobreaker.NewCircuitBreaker[*models.QueryParameters](gobreaker.Settings{
		Name:    "llm-interpreter",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && counts.ConsecutiveFailures >= 3
		},
	})
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Interpret asks the model for query parameters. Errors (transport, non-2xx,
// unparseable reply, open breaker) are returned to the caller, which is
// expected to fall back to the rule interpreter.
func (l *LLMInterpreter) Interpret(ctx context.Context, query string) (*models.QueryParameters, error) {
	return l.breaker.Execute(func() (*models.QueryParameters, error) {
		return l.interpretOnce(ctx, query)
	})
}

func (l *LLMInterpreter) interpretOnce(ctx context.Context, query string) (*models.QueryParameters, error) {
	var cats []string
	if l.categories != nil {
		cats = l.categories(ctx)
	}
	reqBody := chatRequest{
		Model: l.model,
		Messages: []chatMessage{
			{Role: "system", Content: "Eres un asistente experto en búsqueda de documentos."},
			{Role: "user", Content: buildPrompt(query, cats)},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if l.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.apiKey)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("chat response has no choices")
	}

	var params models.QueryParameters
	if err := json.Unmarshal([]byte(extractJSONObject(cr.Choices[0].Message.Content)), &params); err != nil {
		return nil, fmt.Errorf("parse interpretation json: %w", err)
	}
	if params.Keywords == nil {
		params.Keywords = []string{}
	}
	if l.logger != nil {
		l.logger.Debug("llm interpretation",
			zap.String("query", query),
			zap.String("category", params.Category),
			zap.Strings("keywords", params.Keywords),
		)
	}
	return &params, nil
}

// buildPrompt mirrors the original Deepseek prompt: the catalog, the user
// query, and the exact JSON shape to answer with.
func buildPrompt(query string, categories []string) string {
	return fmt.Sprintf(`Eres un asistente que ayuda a buscar documentos en una base de datos.

Categorías disponibles: %s

Consulta del usuario: "%s"

Analiza la consulta y genera parámetros de búsqueda en formato JSON con esta estructura:
{
    "categoria": "nombre de categoría o null si no se especifica",
    "fecha_desde": "YYYY-MM-DD o null",
    "fecha_hasta": "YYYY-MM-DD o null",
    "palabras_clave": ["palabra1", "palabra2"] o [],
    "extension": ".pdf, .jpg, .png o null",
    "explicacion": "breve explicación de lo que entendiste"
}

Responde SOLO con el JSON, sin texto adicional.`, strings.Join(categories, ", "), query)
}

// extractJSONObject trims anything around the outermost JSON object, since
// models occasionally wrap the answer in code fences or prose.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
