package auth

// CredentialProvider verifies a username/password pair and returns the
// subject identity to embed in issued tokens. Swapping in a real
// identity store only requires a new implementation of this interface.
type CredentialProvider interface {
	Authenticate(username, password string) (subject string, ok bool)
}

// StaticCredentialProvider holds a fixed in-memory credential table.
// Demo only; replace with a database-backed provider in production.
type StaticCredentialProvider struct {
	users map[string]string
}

func NewStaticCredentialProvider() *StaticCredentialProvider {
	return &StaticCredentialProvider{
		users: map[string]string{
			"admin":   "password123",
			"student": "student123",
		},
	}
}

func (p *StaticCredentialProvider) Authenticate(username, password string) (string, bool) {
	expected, exists := p.users[username]
	if !exists || expected != password {
		return "", false
	}
	return username, true
}
