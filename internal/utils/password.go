package utils

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordEncoding is returned when a password cannot be hashed because of
// its byte content (invalid UTF-8 or longer than bcrypt accepts).
var ErrPasswordEncoding = errors.New("password encoding not supported")

// ErrMalformedHash is returned when a stored hash is not a bcrypt hash.
var ErrMalformedHash = errors.New("malformed password hash")

// MaxPasswordBytes is the longest input bcrypt will hash.
const MaxPasswordBytes = 72

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	if !utf8.ValidString(plain) || len(plain) > MaxPasswordBytes {
		return "", ErrPasswordEncoding
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordEncoding
		}
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
// A mismatch is reported as (false, nil); only an unusable hash is an error.
func VerifyPassword(hash, plain string) (bool, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return false, ErrMalformedHash
	}
	// nothing longer than bcrypt's limit was ever hashed
	if len(plain) > MaxPasswordBytes {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
