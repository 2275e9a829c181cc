package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env from project root
	_ = godotenv.Load("../.env")

	name := uuid.NewString()
	if len(os.Args) >= 2 {
		name = os.Args[1]
	}

	secret := os.Getenv("API_MASTER_SECRET")
	if secret == "" {
		fmt.Println("Error: API_MASTER_SECRET not found in .env")
		os.Exit(1)
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(name))
	signature := hex.EncodeToString(h.Sum(nil))

	apiKey := name + "." + signature
	fmt.Printf("Generated Key for %s:\n%s\n", name, apiKey)
}
