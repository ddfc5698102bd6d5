package domain

// User Model
type User struct {
	ID        uint   `gorm:"primaryKey"`      // Primary key
	Email     string `gorm:"unique;not null"` // Unique login email, lowercased
	CreatedAt int64  `gorm:"autoCreateTime:milli"`
}

// Session is the authenticated identity context handed out after a magic-link
// login is verified.
type Session struct {
	UserID uint   `json:"user_id"` // Stable owner identity
	Email  string `json:"email"`
	Token  string `json:"token"` // Signed bearer token presented on every call
}
