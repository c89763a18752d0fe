// token emite um JWT de operador para testes locais da API.
//
// Uso: go run ./cmd/token -user op-01 -name "Ana" -role supervisor
// O secret, issuer e validade vêm da mesma configuração da API (JWT_SECRET etc.).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/exp-usinagem-api/pkg/config"
	"github.com/jhoicas/exp-usinagem-api/pkg/jwt"
)

func main() {
	user := flag.String("user", "operador-local", "id do operador")
	name := flag.String("name", "", "nome gravado no histórico")
	role := flag.String("role", jwt.RoleOperator, "operador | supervisor | admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "carregar configuração:", err)
		os.Exit(1)
	}
	switch *role {
	case jwt.RoleOperator, jwt.RoleSupervisor, jwt.RoleAdmin:
	default:
		fmt.Fprintln(os.Stderr, "papel inválido:", *role)
		os.Exit(2)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *user, *name, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gerar token:", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
