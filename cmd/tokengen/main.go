// Command tokengen mints staff access tokens for local development and API
// testing. Tokens are signed with the dev key unless -key is given, so they
// will not work against a production deployment.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	jwttoken "solidario/internal/jwt_token"
	id "solidario/pkg/domain"
)

// Matches the config default when JWT_SIGNING_KEY is not set.
const devSigningKey = "dev-secret-key-change-in-production"

type tokenOutput struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	ExpiresIn string `json:"expires_in"`
	Usage     string `json:"usage"`
}

func main() {
	username := flag.String("username", "operadora1", "Staff username claim")
	role := flag.String("role", "operator", "Staff role: operator, editor or admin")
	userID := flag.String("user-id", "", "User ID (UUID). Generated if empty.")
	ttl := flag.Duration("ttl", 8*time.Hour, "Token time-to-live")
	key := flag.String("key", devSigningKey, "JWT signing key")
	asJSON := flag.Bool("json", false, "Output as JSON")
	flag.Parse()

	uid := id.NewUserID()
	if *userID != "" {
		parsed, err := uuid.Parse(*userID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -user-id: %v\n", err)
			os.Exit(1)
		}
		uid = id.UserID(parsed)
	}

	svc := jwttoken.NewService(*key, *ttl)
	token, err := svc.GenerateToken(uid, *username, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate token: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out := tokenOutput{
			Token:     token,
			UserID:    uid.String(),
			Username:  *username,
			Role:      *role,
			ExpiresIn: ttl.String(),
			Usage:     "curl -H 'Authorization: Bearer <token>' http://localhost:8080/auth/me",
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}

	fmt.Println(token)
}
