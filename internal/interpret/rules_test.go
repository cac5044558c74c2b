package interpret

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/intecdocs/docfinder/internal/classify"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestInterpretCategoryRoundTrip(t *testing.T) {
	r := NewRuleInterpreter()
	for _, cat := range classify.Taxonomy {
		params, err := r.Interpret(context.Background(), cat.Name)
		if err != nil {
			t.Fatalf("Interpret(%q) error = %v", cat.Name, err)
		}
		if params.Category != cat.Name {
			t.Errorf("Interpret(%q).Category = %q, want %q", cat.Name, params.Category, cat.Name)
		}
	}
}

func TestInterpretDates(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantFrom string
		wantTo   string
	}{
		{
			name:     "bare year gives full range",
			query:    "certificados del 2025",
			wantFrom: "2025-01-01",
			wantTo:   "2025-12-31",
		},
		{
			name:     "desde gives lower bound only",
			query:    "documentos desde 2023",
			wantFrom: "2023-01-01",
			wantTo:   "",
		},
		{
			name:     "después gives lower bound only",
			query:    "archivos después del 2021",
			wantFrom: "2021-01-01",
			wantTo:   "",
		},
		{
			name:     "hasta gives upper bound only",
			query:    "facturas hasta 2022",
			wantFrom: "",
			wantTo:   "2022-12-31",
		},
		{
			name:     "antes gives upper bound only",
			query:    "contratos antes del 2020",
			wantFrom: "",
			wantTo:   "2020-12-31",
		},
		{
			name:     "month uses current year and literal day 31",
			query:    "certificados subidos en marzo",
			wantFrom: "2025-03-01",
			wantTo:   "2025-03-31",
		},
		{
			name:     "february also gets day 31",
			query:    "recibos de febrero",
			wantFrom: "2025-02-01",
			wantTo:   "2025-02-31",
		},
		{
			name:     "month overwrites year range",
			query:    "informes de enero del 2019",
			wantFrom: "2025-01-01",
			wantTo:   "2025-01-31",
		},
		{
			name:     "no date signal",
			query:    "facturas de electricidad",
			wantFrom: "",
			wantTo:   "",
		},
	}

	r := NewRuleInterpreter(WithClock(fixedClock(2025)))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := r.Interpret(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("Interpret() error = %v", err)
			}
			if params.DateFrom != tt.wantFrom {
				t.Errorf("DateFrom = %q, want %q", params.DateFrom, tt.wantFrom)
			}
			if params.DateTo != tt.wantTo {
				t.Errorf("DateTo = %q, want %q", params.DateTo, tt.wantTo)
			}
		})
	}
}

func TestInterpretExtension(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"contratos en pdf", ".pdf"},
		{"fotos en png", ".jpg"}, // every image mention normalizes to .jpg
		{"fotos jpg de marzo", ".jpg"},
		{"cualquier imagen escaneada", ".jpg"},
		{"pdf o imagen", ".pdf"}, // pdf is checked first
		{"facturas recientes", ""},
	}

	r := NewRuleInterpreter(WithClock(fixedClock(2025)))
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			params, err := r.Interpret(context.Background(), tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if params.Extension != tt.want {
				t.Errorf("Extension = %q, want %q", params.Extension, tt.want)
			}
		})
	}
}

func TestInterpretKeywords(t *testing.T) {
	r := NewRuleInterpreter()
	params, err := r.Interpret(context.Background(), "Busca documentos sobre propiedad intelectual de 2024")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"propiedad", "intelectual", "2024"}
	if !reflect.DeepEqual(params.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", params.Keywords, want)
	}
}

func TestInterpretKeywordsKeepDuplicatesAndOrder(t *testing.T) {
	r := NewRuleInterpreter()
	params, err := r.Interpret(context.Background(), "epic games epic games")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"epic", "games", "epic", "games"}
	if !reflect.DeepEqual(params.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", params.Keywords, want)
	}
}

func TestInterpretExplanation(t *testing.T) {
	r := NewRuleInterpreter(WithClock(fixedClock(2025)))
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no signal",
			query: "de la el",
			want:  "Búsqueda general en todos los documentos",
		},
		{
			name:  "category and dates and keywords",
			query: "busca certificado del 2025",
			want:  "Buscar documentos de tipo 'Certificado' y del período especificado y que contengan: certificado, 2025",
		},
		{
			name:  "keywords capped at three",
			query: "propiedad intelectual licitaciones internacionales vigentes",
			want:  "Buscar que contengan: propiedad, intelectual, licitaciones",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := r.Interpret(context.Background(), tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if params.Explanation != tt.want {
				t.Errorf("Explanation = %q, want %q", params.Explanation, tt.want)
			}
		})
	}
}

func TestInterpretEmptyQuery(t *testing.T) {
	r := NewRuleInterpreter()
	params, err := r.Interpret(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if params.Category != "" || params.DateFrom != "" || params.DateTo != "" || params.Extension != "" {
		t.Errorf("empty query produced filters: %+v", params)
	}
	if len(params.Keywords) != 0 {
		t.Errorf("Keywords = %v, want empty", params.Keywords)
	}
}
