package models

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a storefront account.
type User struct {
	BaseModel
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Email        string  `gorm:"uniqueIndex" json:"email"`
	DisplayName  string  `json:"displayName"`
	PasswordHash string  `json:"-"`
	Role         string  `gorm:"default:user" json:"role"`
	Orders       []Order `json:"orders,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
