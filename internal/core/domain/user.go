package domain

import "time"

// Role is the marketplace role carried by a profile as user_type.
type Role string

const (
	RoleFarmer   Role = "farmer"
	RoleSupplier Role = "supplier"
	RoleTrader   Role = "trader"
	RoleExpert   Role = "expert"
)

// DefaultRole is assigned to provisional profiles whose identity metadata has no user_type.
const DefaultRole = RoleFarmer

// GenericUserLabel is shown wherever a name or role label is missing.
const GenericUserLabel = "مستخدم"

// Provisional profile defaults used when the profile record cannot be fetched.
const (
	DefaultFirstName = GenericUserLabel
	DefaultLastName  = "جديد"
	DefaultState     = "الخرطوم"
)

var roleLabels = map[Role]string{
	RoleFarmer:   "مزارع",
	RoleSupplier: "مورد",
	RoleTrader:   "تاجر",
	RoleExpert:   "خبير",
}

// Valid reports whether r is one of the four marketplace roles.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Label returns the display label for r. Unknown roles are shown verbatim,
// an empty role as the generic "user" label.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	if r == "" {
		return GenericUserLabel
	}
	return string(r)
}

// IdentityMetadata is the provisional profile data attached to an identity at sign up.
type IdentityMetadata struct {
	FirstName string `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"  bson:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"      bson:"phone,omitempty"`
	State     string `json:"state,omitempty"      bson:"state,omitempty"`
	UserType  string `json:"user_type,omitempty"  bson:"user_type,omitempty"`
}

// IsZero reports whether no metadata field is set.
func (m IdentityMetadata) IsZero() bool {
	return m == IdentityMetadata{}
}

// Identity is the authentication subsystem's notion of who is logged in.
type Identity struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Metadata  IdentityMetadata `json:"user_metadata"`
	CreatedAt time.Time        `json:"created_at"`
}

// AuthSession is issued by a successful sign in.
type AuthSession struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        Identity  `json:"user"`
}

// Profile is the application-level projection of a "users" record.
type Profile struct {
	ID        string `json:"id"         bson:"_id"`
	Email     string `json:"email"      bson:"email"`
	FirstName string `json:"first_name" bson:"first_name"`
	LastName  string `json:"last_name"  bson:"last_name"`
	Role      Role   `json:"user_type"  bson:"user_type"`
	State     string `json:"state"      bson:"state"`
	Phone     string `json:"phone"      bson:"phone"`
	IsActive  bool   `json:"is_active"  bson:"is_active"`
	IsAdmin   bool   `json:"is_admin"   bson:"is_admin"`
}

// ProvisionalProfile builds a profile from identity metadata, filling the
// documented defaults for every missing field.
func ProvisionalProfile(id Identity) *Profile {
	m := id.Metadata
	return &Profile{
		ID:        id.ID,
		Email:     id.Email,
		FirstName: orDefault(m.FirstName, DefaultFirstName),
		LastName:  orDefault(m.LastName, DefaultLastName),
		Role:      Role(orDefault(m.UserType, string(DefaultRole))),
		State:     orDefault(m.State, DefaultState),
		Phone:     m.Phone,
		IsActive:  true,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ProfileChanges carries the editable subset of a profile. Nil fields are left untouched.
type ProfileChanges struct {
	FirstName *string `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"  bson:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"      bson:"phone,omitempty"`
	State     *string `json:"state,omitempty"      bson:"state,omitempty"`
}

// IsEmpty reports whether no change is requested.
func (c ProfileChanges) IsEmpty() bool {
	return c.FirstName == nil && c.LastName == nil && c.Phone == nil && c.State == nil
}
