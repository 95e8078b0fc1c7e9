package controllers_fx

import (
	"go.uber.org/fx"

	"donations/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewDonationController))
