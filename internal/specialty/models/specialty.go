package models

// Specialty is a medical specialty. The store assigns the ID; the insert
// procedure never returns it, so creation recovers the row by its unique,
// case-insensitive name.
type Specialty struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}

// UpsertRequest is the payload for create and update; both carry only a name.
type UpsertRequest struct {
	Nome string `json:"nome"`
}
