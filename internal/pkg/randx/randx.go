/*
Package randx provides functions for generating cryptographically secure random values
and unique identifiers.

It is primarily used to generate standard UUID identifiers and random default nicknames
for new accounts.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))
)

// NewID generates a standard UUID v4 string, used for message, product, and user identifiers.
func NewID() string {
	return uuid.New().String()
}

// base62String returns a random Base62 string of the given length using crypto/rand.
func base62String(length int) (string, error) {
	result := make([]byte, length)

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %v", err)
		}
		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// UserNickname generates a random default nickname with a "User_" prefix and
// 6 random Base62 characters.
func UserNickname() (string, error) {
	const nicknameRandomLength = 6

	suffix, err := base62String(nicknameRandomLength)
	if err != nil {
		return "", err
	}

	return "User_" + suffix, nil
}
