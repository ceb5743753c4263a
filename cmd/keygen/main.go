// Command keygen prints a random base64 AES-256 key suitable for
// TWO_FACTOR_ENCRYPTION_KEY.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dmitrymomot/authguard/pkg/secrets"
)

func main() {
	asEnv := flag.Bool("env", false, "print as TWO_FACTOR_ENCRYPTION_KEY=<key>")
	flag.Parse()

	key, err := secrets.GenerateKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating key: %v\n", err)
		os.Exit(1)
	}

	encoded := secrets.EncodeKey(key)
	if *asEnv {
		fmt.Printf("TWO_FACTOR_ENCRYPTION_KEY=%s\n", encoded)
		return
	}
	fmt.Println(encoded)
}
