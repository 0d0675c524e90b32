// Command issuetoken prints a bearer token for local testing of the ledger API.
//
// Tokens are issued by the identity service in production. This tool signs
// one with the configured key so the API can be exercised without it.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
)

func main() {
	var (
		configPath = flag.String("config", "./configs", "directory containing app.env")
		userID     = flag.String("user", "", "user id to issue the token for, random when empty")
		duration   = flag.Duration("duration", 0, "token lifetime, ACCESS_TOKEN_DURATION when zero")
	)

	flag.Parse()

	config, err := configpkg.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	id := uuid.New()
	if *userID != "" {
		if id, err = uuid.Parse(*userID); err != nil {
			log.Fatal().Err(err).Str("user", *userID).Msg("invalid user id")
		}
	}

	d := config.AccessTokenDuration
	if *duration > 0 {
		d = *duration
	}

	maker, err := tokenpkg.New(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create token maker")
	}

	token, payload, err := maker.CreateToken(id, d)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create token")
	}

	fmt.Fprintf(os.Stderr, "user %s, expires at %s\n", payload.UserID, payload.ExpiredAt.Format(time.RFC3339))
	fmt.Println(token)
}
