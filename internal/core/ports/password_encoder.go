package ports

// PasswordEncoder is the one-way hash used for customer passwords.
type PasswordEncoder interface {
	Encode(plaintext string) (string, error)
	Matches(hash, plaintext string) bool
}
