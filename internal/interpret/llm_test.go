package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/intecdocs/docfinder/internal/models"
)

func TestLLMInterpreterParsesResponse(t *testing.T) {
	reply := models.QueryParameters{
		Category:    "Factura",
		DateFrom:    "2024-01-01",
		DateTo:      "2024-12-31",
		Keywords:    []string{"epic", "games"},
		Extension:   ".pdf",
		Explanation: "Facturas de Epic Games del 2024",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		content, _ := json.Marshal(reply)
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "```json\n" + string(content) + "\n```"}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	l := NewLLMInterpreter(srv.URL, "deepseek-chat", "test-key", 5*time.Second,
		func(ctx context.Context) []string { return []string{"Factura", "Recibo"} })
	params, err := l.Interpret(context.Background(), "facturas de epic games del 2024")
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if params.Category != "Factura" || params.Extension != ".pdf" {
		t.Errorf("params = %+v", params)
	}
	if !reflect.DeepEqual(params.Keywords, []string{"epic", "games"}) {
		t.Errorf("Keywords = %v", params.Keywords)
	}
}

func TestLLMInterpreterErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	l := NewLLMInterpreter(srv.URL, "deepseek-chat", "", 5*time.Second, nil)
	if _, err := l.Interpret(context.Background(), "facturas"); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"code fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", `Claro: {"a":1} es el resultado.`, `{"a":1}`},
		{"no object", "sin json", "sin json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSONObject(tt.in); got != tt.want {
				t.Errorf("extractJSONObject() = %q, want %q", got, tt.want)
			}
		})
	}
}

type failingInterpreter struct{}

func (failingInterpreter) Interpret(ctx context.Context, q string) (*models.QueryParameters, error) {
	return nil, fmt.Errorf("boom")
}

func TestFallbackInterpreter(t *testing.T) {
	f := NewFallbackInterpreter(failingInterpreter{}, NewRuleInterpreter(), nil)
	params, err := f.Interpret(context.Background(), "certificado")
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	if params.Category != "Certificado" {
		t.Errorf("Category = %q, want Certificado", params.Category)
	}
}
