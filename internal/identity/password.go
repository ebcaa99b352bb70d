package identity

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	passwordLength = 8

	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*-_=+?"
)

// GeneratePassword returns an 8 character random password containing at
// least one lowercase letter, one uppercase letter, one digit and one
// symbol, in randomized order.
func GeneratePassword() (string, error) {
	classes := []string{lowerChars, upperChars, digitChars, symbolChars}
	all := lowerChars + upperChars + digitChars + symbolChars

	chars := make([]byte, 0, passwordLength)
	for _, class := range classes {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for len(chars) < passwordLength {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	// Fisher-Yates so the mandatory characters don't sit at fixed positions
	for i := len(chars) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("failed to shuffle password: %w", err)
		}
		chars[i], chars[j.Int64()] = chars[j.Int64()], chars[i]
	}

	return string(chars), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("failed to generate password: %w", err)
	}
	return set[n.Int64()], nil
}
