// Package models defines the avaliacao records exchanged over the API.
package models

// Status distinguishes live avaliacoes from soft-deleted ones. The row is
// never removed; the delete procedure only flips the flag.
type Status string

const (
	StatusActive  Status = "ATIVO"
	StatusDeleted Status = "DELETADO"
)

// TimeOfDayLayout is the wire format of the horario field, matching the
// database TIME column.
const TimeOfDayLayout = "15:04:05"

// Evaluation is a patient satisfaction record.
type Evaluation struct {
	ID        int64  `json:"id"`
	Horario   string `json:"horario"`
	Setor     string `json:"setor"`
	Local     string `json:"local"`
	Avaliacao string `json:"avaliacao"`
	Status    Status `json:"status"`
}

// CreateRequest carries the fields of a new avaliacao.
type CreateRequest struct {
	Horario   string `json:"horario"`
	Setor     string `json:"setor"`
	Local     string `json:"local"`
	Avaliacao string `json:"avaliacao"`
}

// UpdateRequest is a merge patch: nil fields keep their stored values.
type UpdateRequest struct {
	Setor     *string `json:"setor"`
	Local     *string `json:"local"`
	Avaliacao *string `json:"avaliacao"`
}
