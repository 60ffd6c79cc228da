package routes

import (
	"github.com/shashiranjanraj/reqscope/app/controllers"
	"github.com/shashiranjanraj/reqscope/pkg/router"
)

func RegisterAPI(r *router.Router) {
	mathController := controllers.NewMathController()

	r.Get("/math/{num}", "math.divide", mathController.Divide)
}
