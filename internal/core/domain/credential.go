package domain

import "time"

// Credential is the stored login of an identity.
type Credential struct {
	ID           string           `bson:"_id"`
	Email        string           `bson:"email"`
	PasswordHash string           `bson:"password_hash"`
	Metadata     IdentityMetadata `bson:"metadata"`
	CreatedAt    time.Time        `bson:"created_at"`
	UpdatedAt    time.Time        `bson:"updated_at"`
}

// Identity is the public view of c.
func (c *Credential) Identity() *Identity {
	return &Identity{ID: c.ID, Email: c.Email, Metadata: c.Metadata, CreatedAt: c.CreatedAt}
}
