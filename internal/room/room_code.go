package room

import "math/rand"

const codeLength = 5
const maxRetries = 100

// Spectator codes skip characters that read alike on a phone screen.
var codeAlphabet = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

// GenerateCode creates a random spectator code that is not in use.
func GenerateCode(inUse func(code string) bool) string {
	for range maxRetries {
		code := randomCode()
		if !inUse(code) {
			return code
		}
	}
	// 32^5 codes; reaching here means the server is absurdly full
	return randomCode()
}

func randomCode() string {
	b := make([]rune, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// ValidCode reports whether s could have come from GenerateCode.
func ValidCode(s string) bool {
	if len(s) != codeLength {
		return false
	}
	for _, c := range s {
		found := false
		for _, a := range codeAlphabet {
			if c == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
