// Package main выпускает токен идентификации для локальной разработки:
// подписывает uid тем же секретом, которым сервис проверяет токены.
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/identity-token -uid U1
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/magabrotheeeer/station-directory/internal/config"
	"github.com/magabrotheeeer/station-directory/internal/lib/jwt"
)

func main() {
	uid := flag.String("uid", "", "user identifier to put into the token subject")
	flag.Parse()

	if *uid == "" {
		fmt.Fprintln(os.Stderr, "uid is required")
		os.Exit(2)
	}

	cfg := config.MustLoad()
	token, err := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.Issuer, cfg.TokenTTL).GenerateToken(*uid)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to generate token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
