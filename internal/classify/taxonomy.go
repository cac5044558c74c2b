package classify

import "github.com/intecdocs/docfinder/internal/models"

// Category is one taxonomy entry: a display name and the keywords that vote
// for it. Keywords are lowercase; matching is done against lowercased input.
type Category struct {
	Name     string
	Keywords []string
}

// Taxonomy is the fixed category list. Order matters: scoring ties and
// query-interpretation scans both resolve to the first entry, so entries must
// not be reordered without revisiting both call sites.
var Taxonomy = []Category{
	{Name: "Contrato", Keywords: []string{
		"contrato", "acuerdo", "arrendamiento", "cláusula", "las partes", "firmante",
	}},
	{Name: "Factura", Keywords: []string{
		"factura", "subtotal", "itbis", "ncf", "importe", "total a pagar",
	}},
	{Name: "Recibo", Keywords: []string{
		"recibo", "recibí", "comprobante", "abono", "efectivo",
	}},
	{Name: "Identificación personal", Keywords: []string{
		"cédula", "pasaporte", "identidad", "nacionalidad", "lugar de nacimiento",
	}},
	{Name: "Informe", Keywords: []string{
		"informe", "resumen ejecutivo", "análisis", "resultados", "conclusiones", "hallazgos",
	}},
	{Name: "Currículum/Hoja de vida", Keywords: []string{
		"currículum", "curriculum", "hoja de vida", "experiencia laboral", "educación", "habilidades", "referencias",
	}},
	{Name: "Certificado", Keywords: []string{
		"certificado", "certifica", "constancia", "otorga", "acredita", "diploma",
	}},
	{Name: "Licencia o permiso", Keywords: []string{
		"licencia", "permiso", "autorización", "autoriza", "vigencia",
	}},
	{Name: "Correspondencia", Keywords: []string{
		"estimado", "estimada", "atentamente", "cordialmente", "remitente", "destinatario",
	}},
	{Name: "Documentación legal", Keywords: []string{
		"legal", "demanda", "tribunal", "juzgado", "notario", "sentencia", "alegato",
	}},
	{Name: "Documentación técnica", Keywords: []string{
		"especificaciones", "arquitectura", "diagrama", "técnico", "requisitos", "versión",
	}},
	{Name: "Manual o guía", Keywords: []string{
		"manual", "guía", "instrucciones", "paso a paso", "procedimiento", "tutorial",
	}},
	{Name: "Proyecto", Keywords: []string{
		"proyecto", "objetivos", "alcance", "entregables", "cronograma", "presupuesto",
	}},
	{Name: "Planificación/Agenda", Keywords: []string{
		"agenda", "reunión", "calendario", "planificación", "horario", "convocatoria",
	}},
	{Name: "Leyes y normativas", Keywords: []string{
		"ley", "decreto", "reglamento", "normativa", "artículo", "resolución", "gaceta",
	}},
}

// FallbackCategory is assigned when no keyword scores at all.
const FallbackCategory = "Otros"

// FallbackConfidence is the fixed confidence for the fallback category.
const FallbackConfidence = 0.3

// CategoryNames returns the taxonomy names in order, without the fallback.
func CategoryNames() []string {
	names := make([]string, len(Taxonomy))
	for i, c := range Taxonomy {
		names[i] = c.Name
	}
	return names
}

// CatalogFrom returns the live category catalog: the taxonomy names in order,
// followed by any categories present on stored records that the taxonomy does
// not list ("Otros" included), in store order. Duplicates are dropped.
func CatalogFrom(index *models.Index) []string {
	names := CategoryNames()
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		seen[n] = struct{}{}
	}
	for i := range index.Documents {
		c := index.Documents[i].Category
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		names = append(names, c)
	}
	return names
}
