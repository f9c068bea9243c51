// Command devtoken prints a bearer token for local testing of the API.
// It signs with the configured auth.jwt_secret, so the running server
// accepts the token.
//
//	devtoken [-user <uuid>]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/azsonic/10xdevs-flashcards/internal/config"
	"github.com/azsonic/10xdevs-flashcards/internal/service/auth"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	userFlag := flag.String("user", "", "User ID to issue the token for (default: random)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	userID := uuid.New()
	if *userFlag != "" {
		userID, err = uuid.Parse(*userFlag)
		if err != nil {
			log.Fatalf("Invalid user ID %q: %v", *userFlag, err)
		}
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to create JWT service: %v", err)
	}
	token, err := jwtService.GenerateToken(context.Background(), userID)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Printf("User:  %s\nToken: %s\n", userID, token)
}
