package main

import (
	"CareBridge/internal/bootstrap"
	pkg "CareBridge/pkg/routes"

	"go.uber.org/fx"
)

func main() {
	bootstrap.Loadenv()
	app := fx.New(
		pkg.EchoModules,
	)

	app.Run()
}
