package domain

// Company is the employer a user registered under.
type Company struct {
	Name string `json:"name"`
}

// User represents an authenticated TastePass member.
// Name is the display name derived at login from the server's
// first/last name fields.
type User struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Company Company `json:"company"`
}
