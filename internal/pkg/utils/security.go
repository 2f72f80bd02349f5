package utils

import "golang.org/x/crypto/bcrypt"

func HashAPIKey(apiKey string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckAPIKeyHash reports whether apiKey matches the bcrypt hash. An empty hash
// never matches so an unconfigured key cannot be used.
func CheckAPIKeyHash(apiKey, hash string) bool {
	if apiKey == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(apiKey)) == nil
}
