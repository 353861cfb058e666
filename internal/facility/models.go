// Package facility manages unidades, the physical clinic sites that salas,
// colaboradores and agendamentos hang off. Unlike especialidades and
// avaliacoes these are plain row operations, not procedure calls.
package facility

// Facility is a clinic site.
type Facility struct {
	ID       int64  `json:"id"`
	Nome     string `json:"nome"`
	Endereco string `json:"endereco"`
	Telefone string `json:"telefone"`
}

// UpsertRequest carries the writable fields of a unidade.
type UpsertRequest struct {
	Nome     string `json:"nome"`
	Endereco string `json:"endereco"`
	Telefone string `json:"telefone"`
}
