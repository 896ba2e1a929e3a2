package domain

// Actor is the authenticated caller, supplied by the identity collaborator
// (JWT claims). The ID is trusted and stable; no user records are managed
// by this service.
type Actor struct {
	ID    int32  `json:"id"`
	Email string `json:"email"`
}
