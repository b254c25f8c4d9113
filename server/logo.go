package server

import (
	_ "embed"
	"socialite/log"
)

//go:embed logo.txt
var logo string

func PrintLogo() {
	log.Logger().Println("\n" + logo)
}
