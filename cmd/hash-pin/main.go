package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/hash-pin/main.go <pin>")
		fmt.Println("Example: go run cmd/hash-pin/main.go 4711")
		os.Exit(1)
	}

	pin := os.Args[1]
	if len(pin) < 4 {
		fmt.Fprintln(os.Stderr, "PIN must be at least 4 characters")
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash PIN: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Staff PIN hashed\n\n")
	fmt.Printf("Add this line to your .env:\n")
	fmt.Printf("STAFF_PIN_HASH=%s\n", hash)
	fmt.Printf("\nStaff requests send the PIN in the X-Staff-Pin header.\n")
}
