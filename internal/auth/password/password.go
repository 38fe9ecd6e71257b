// Package password wraps bcrypt hashing for rep credentials.
package password

import "golang.org/x/crypto/bcrypt"

const cost = 12

// Hash hashes a plaintext password with bcrypt.
func Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare checks a plaintext password against a stored hash.
func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
