// cmd/genhash prints the bcrypt hash stored for a password.
// Uso: go run ./cmd/genhash <password>
package main

import (
	"fmt"
	"os"

	"evidencias/internal/service"
)

func main() {
	if len(os.Args) != 2 || os.Args[1] == "" {
		fmt.Fprintln(os.Stderr, "uso: genhash <password>")
		os.Exit(2)
	}
	h, err := service.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(h)
}
