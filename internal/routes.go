package internal

import (
	"net/http"

	"zapperd/internal/controllers"
	"zapperd/internal/providers"
)

func InitRoutes(relayController *controllers.RelayController, configController *controllers.ConfigController, shockController *controllers.ShockController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Put("/relay", http.HandlerFunc(relayController.PutBlob))
	routers.Get("/relay/{key}", http.HandlerFunc(relayController.GetBlob))

	routers.Get("/config", http.HandlerFunc(configController.GetConfig))
	routers.Put("/config", http.HandlerFunc(configController.PutConfig))
	routers.Post("/import", http.HandlerFunc(configController.Import))
	routers.Post("/import/code", http.HandlerFunc(configController.ImportCode))
	routers.Post("/share", http.HandlerFunc(configController.Share))
	routers.Get("/export", http.HandlerFunc(configController.Export))
	routers.Delete("/connection", http.HandlerFunc(configController.RemoveConnection))

	routers.Post("/shock", http.HandlerFunc(shockController.Shock))
	routers.Post("/stop", http.HandlerFunc(shockController.Stop))

	return routers
}
