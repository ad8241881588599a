package domain

// MaxPinned is the cap on pinned favorite restaurants per user.
const MaxPinned = 2

// Session is the client-side record of the current authenticated user
// and their pinned-restaurant selection. It is the shape persisted to
// the local session file.
type Session struct {
	Token             string   `json:"token"`
	Authenticated     bool     `json:"authenticated"`
	User              *User    `json:"user"`
	PinnedRestaurants []string `json:"pinnedRestaurants"`
}

// Pinned reports whether the restaurant id is in the pinned set.
func (s Session) Pinned(id string) bool {
	for _, p := range s.PinnedRestaurants {
		if p == id {
			return true
		}
	}
	return false
}

// Valid reports whether the session is internally consistent: an
// authenticated session must carry both a token and a user. Restored
// snapshots that fail this check are discarded.
func (s Session) Valid() bool {
	if !s.Authenticated {
		return true
	}
	return s.Token != "" && s.User != nil
}

// Clone returns a copy with its own pinned slice, safe to hand to
// subscribers while the original keeps mutating.
func (s Session) Clone() Session {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	out.PinnedRestaurants = append([]string(nil), s.PinnedRestaurants...)
	return out
}
