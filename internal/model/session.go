package model

// Session is the authenticated identity resolved from the session cookie.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (s *Session) HasRole(role string) bool {
	return s != nil && s.Role == role
}
