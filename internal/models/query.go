package models

// QueryParameters is the structured filter set produced by interpreting a
// free-text query. Zero values mean "not specified". The JSON keys follow the
// contract the LLM interpreter backend is prompted to produce, so the same
// struct decodes both rule-based and model-generated interpretations.
type QueryParameters struct {
	Category    string   `json:"categoria,omitempty"`
	DateFrom    string   `json:"fecha_desde,omitempty"`
	DateTo      string   `json:"fecha_hasta,omitempty"`
	Keywords    []string `json:"palabras_clave"`
	Extension   string   `json:"extension,omitempty"`
	Explanation string   `json:"explicacion"`
}

// HasDateBound reports whether either date bound is set.
func (p *QueryParameters) HasDateBound() bool {
	return p.DateFrom != "" || p.DateTo != ""
}
