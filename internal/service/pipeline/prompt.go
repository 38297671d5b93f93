package pipeline

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/heartmarshall/meetings-backend/internal/domain"
)

// MaxExcerptLength caps the transcript excerpt embedded in the prompt, in characters.
const MaxExcerptLength = 12000

const excerptEllipsis = "…"

func buildPrompt(id domain.MeetingIdentifier, t domain.Transcript) string {
	minutes := int(math.Round(t.DurationSec / 60))

	return fmt.Sprintf(`Eres un asistente que resume reuniones de trabajo.

Reunión: %s
Fecha: %s
Responsable: %s
Duración aproximada: %d minutos

Transcripción:
%s

Devuelve SOLO un objeto JSON válido con exactamente esta estructura:
{
  "titulo": "<título breve, máximo 120 caracteres>",
  "temas_tratados": ["<tema>", "..."],
  "resumen_general": "<resumen en uno o dos párrafos>",
  "pendientes": [{"descripcion": "<tarea>", "responsable": "<persona>", "fecha_limite": "<YYYY-MM-DD o vacío>"}],
  "tags": ["<etiqueta>", "..."],
  "acuerdos": ["<acuerdo>"],
  "riesgos": ["<riesgo>"],
  "decisiones": ["<decisión>"]
}

Reglas:
- "temas_tratados" y "tags" deben tener al menos un elemento
- Usa listas vacías cuando no haya pendientes, acuerdos, riesgos o decisiones
- No incluyas markdown ni explicaciones, solo el JSON`,
		id.MeetingName, id.MeetingDate, id.OwnerEmail, minutes, excerpt(t.FullText, MaxExcerptLength))
}

// excerpt truncates s to n characters, marking the cut with an ellipsis.
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + excerptEllipsis
}
