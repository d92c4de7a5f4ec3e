// Command hash-admin-password prints the argon2id hash for the password
// given as the first argument, for use as STUDIO_ADMIN_PASSWORD_HASH.
package main

import (
	"fmt"
	"os"

	"github.com/atelierhq/studio-backend/pkg/config"
	"github.com/atelierhq/studio-backend/pkg/security"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hash-admin-password <password>")
		os.Exit(2)
	}

	// Hash with the default parameters; the verifier reads them back from
	// the hash string, so config does not need to match at runtime.
	var cfg config.AdminConfig
	hash, err := security.HashPassword(os.Args[1], cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hashing password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
