package session

import "time"

// Roles, as reported by the backend on login.
const (
	RoleAdmin     = "admin"
	RolePrincipal = "principal"
	RoleTeacher   = "teacher"
	RoleStudent   = "student"
)

var AllRoles = []string{RoleAdmin, RolePrincipal, RoleTeacher, RoleStudent}

func ValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Status is the session lifecycle state.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticating  Status = "authenticating"
	StatusAuthenticated   Status = "authenticated"
	StatusRefreshing      Status = "refreshing"
	StatusExpired         Status = "expired"
)

// UserRecord is the signed-in user's identity as the backend reports it.
// It is owned by the session and only replaced wholesale on profile update.
type UserRecord struct {
	ID        int       `json:"user_id"`
	SchoolID  int       `json:"school_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Session holds the token pair and user record for one signed-in principal.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         UserRecord
	Status       Status
}

// Authenticated reports whether the session can be used for backend calls.
// Both the access token and the user record must be present. A session mid
// refresh still counts; its callers block on the refresh outcome instead.
func (s Session) Authenticated() bool {
	if s.Status != StatusAuthenticated && s.Status != StatusRefreshing {
		return false
	}
	return s.AccessToken != "" && s.User.ID != 0
}

// Store persists a session's token pair and user record across restarts.
// Implementations live in storage/session.
type Store interface {
	// Save overwrites any previously stored session.
	Save(sess Session) error
	// Load returns the stored session, if any. A missing or malformed entry
	// reads as "no session"; Load never fails.
	Load() (Session, bool)
	// Clear removes the stored session. Subsequent Loads return no session.
	Clear() error
}
