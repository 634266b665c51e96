package auth

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	accessSecret  = []byte(os.Getenv("ACCESS_TOKEN_SECRET"))
	refreshSecret = []byte(os.Getenv("REFRESH_TOKEN_SECRET"))
)

// SetSecrets installs the configured signing keys. The server wires the
// config values in at startup so issued tokens and the verifying middleware
// always share one key, including when the env vars are unset and the config
// falls back to its defaults.
func SetSecrets(access, refresh string) {
	accessSecret = []byte(access)
	refreshSecret = []byte(refresh)
}

// Claims carried by an access token: who the actor is and which role they
// are acting under. The role inside the token is what authorization and the
// audit trail use, not the role column re-read from the database.
type Claims struct {
	UserID string
	Role   string
}

func GenerateAccessToken(userID, role string) (string, error) {
	expiryHours, _ := strconv.Atoi(os.Getenv("ACCESS_TOKEN_EXPIRY_HOURS"))
	if expiryHours == 0 {
		expiryHours = 1
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(time.Duration(expiryHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret(accessSecret, "ACCESS_TOKEN_SECRET"))
}

func GenerateRefreshToken(userID string) (string, error) {
	expiryHours, _ := strconv.Atoi(os.Getenv("REFRESH_TOKEN_EXPIRY_HOURS"))
	if expiryHours == 0 {
		expiryHours = 24 * 7
	}
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Duration(expiryHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret(refreshSecret, "REFRESH_TOKEN_SECRET"))
}

func ParseAccessToken(tokenStr string) (*Claims, error) {
	claims, err := parse(tokenStr, secret(accessSecret, "ACCESS_TOKEN_SECRET"))
	if err != nil {
		return nil, err
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return nil, errors.New("invalid claims")
	}

	return &Claims{UserID: userID, Role: role}, nil
}

func ParseRefreshToken(tokenStr string) (string, error) {
	claims, err := parse(tokenStr, secret(refreshSecret, "REFRESH_TOKEN_SECRET"))
	if err != nil {
		return "", err
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", errors.New("invalid claims")
	}

	return userID, nil
}

func parse(tokenStr string, key []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	return claims, nil
}

// secret re-reads the env var when the package-level value was captured
// before the test (or dotenv load) set it.
func secret(cached []byte, envKey string) []byte {
	if len(cached) > 0 {
		return cached
	}
	return []byte(os.Getenv(envKey))
}
