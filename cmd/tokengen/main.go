// Command tokengen issues an access token for local development, so the
// profile client can be used without an identity provider.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/expertprofile/internal/server/auth"
	"github.com/google/uuid"
)

func main() {
	secret := flag.String("s", "secretKey", "JWT secret, must match the server's")
	userID := flag.String("i", "", "user id (uuid); random when empty")
	email := flag.String("m", "", "email claim")
	username := flag.String("n", "", "username claim")
	minutes := flag.Int("t", 24*60, "validity in minutes")
	flag.Parse()

	id := *userID
	if id == "" {
		id = uuid.NewString()
	}

	token, err := auth.GenerateToken(auth.Identity{UserID: id, Email: *email, Username: *username},
		[]byte(*secret), time.Duration(*minutes)*time.Minute)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(token)
}
