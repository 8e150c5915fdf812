package users

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// DefaultCost is the bcrypt cost for new hashes.
const DefaultCost = 12

const legacyPrefix = "$pbkdf2-sha256$"

func hashPassword(password string, cost int) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// checkPassword verifies password against a bcrypt hash or a passlib
// "$pbkdf2-sha256$rounds$salt$checksum" hash left by older user files.
func checkPassword(hash, password string) bool {
	if strings.HasPrefix(hash, legacyPrefix) {
		return checkLegacy(hash, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func checkLegacy(hash, password string) bool {
	parts := strings.Split(strings.TrimPrefix(hash, legacyPrefix), "$")
	if len(parts) != 3 {
		return false
	}
	rounds, err := strconv.Atoi(parts[0])
	if err != nil || rounds < 1 {
		return false
	}
	salt, err := decodeAB64(parts[1])
	if err != nil {
		return false
	}
	want, err := decodeAB64(parts[2])
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, rounds, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// decodeAB64 decodes passlib's "adapted base64": standard alphabet with
// '.' in place of '+' and no padding.
func decodeAB64(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.ReplaceAll(s, ".", "+"))
}

func encodeAB64(b []byte) string {
	return strings.ReplaceAll(base64.RawStdEncoding.EncodeToString(b), "+", ".")
}
