// Command token issues a bearer token for calling the API as a given user.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"classroll/internal/auth"
	"classroll/internal/config"
)

func main() {
	caller := flag.Uint64("caller", 0, "caller id placed in the token subject")
	role := flag.String("role", "lecturer", "role claim")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to ACCESS_TTL)")
	flag.Parse()

	cfg := config.Load()
	if *ttl <= 0 {
		*ttl = cfg.AccessTTL
	}

	tok, err := auth.Issue(*caller, *role, cfg.JWTIssuer, cfg.JWTSigningKey, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		os.Exit(1)
	}
	fmt.Println(tok.AccessToken)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.ExpiresAt.Format(time.RFC3339))
}
