// Package staff manages colaboradores. Every colaborador holds a mandatory
// especialidade reference; that foreign key is what blocks deleting an
// especialidade that is still in use.
package staff

// Staff is a clinic collaborator.
type Staff struct {
	ID              int64  `json:"id"`
	Nome            string `json:"nome"`
	Email           string `json:"email"`
	EspecialidadeID int64  `json:"especialidade_id"`
	UnidadeID       *int64 `json:"unidade_id,omitempty"`
}

// UpsertRequest carries the writable fields of a colaborador.
type UpsertRequest struct {
	Nome            string `json:"nome"`
	Email           string `json:"email"`
	EspecialidadeID int64  `json:"especialidade_id"`
	UnidadeID       *int64 `json:"unidade_id"`
}
