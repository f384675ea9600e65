package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupRoutes injects storefront and ops related endpoints if required.
func (api *APIHandler) SetupRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.NotFound = api.NotFound()
	api.SetupStorefrontRoutes(router, m)
	if api.config.OpsEndpointsEnable {
		api.SetupOpsRoutes(router, m)
	}
	return router
}

// SetupStorefrontRoutes injects the catalog, favorites, cart and fragments
// endpoints. This is the command dispatch table of the storefront: every
// user interaction of the front end maps to exactly one route here.
func (api *APIHandler) SetupStorefrontRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public(api.Index))
	router.GET("/status", m.public(api.Status))

	router.GET("/v1/books", m.public(api.GetLibrary))
	router.GET("/v1/books/:id", m.public(api.GetOneBook))
	router.GET("/v1/featured", m.public(api.GetFeatured))
	router.GET("/v1/genres", m.public(api.GetGenres))
	router.GET("/v1/authors", m.public(api.GetAuthors))

	router.GET("/v1/favorites", m.public(api.GetFavorites))
	router.POST("/v1/favorites/:id/toggle", m.public(api.ToggleFavorite))

	router.GET("/v1/cart", m.public(api.GetCart))
	router.GET("/v1/cart/badge", m.public(api.GetCartBadge))
	router.POST("/v1/cart/items", m.public(api.AddCartItem))
	router.PUT("/v1/cart/items/:id", m.public(api.UpdateCartItem))
	router.POST("/v1/cart/items/:id/adjust", m.public(api.AdjustCartItem))
	router.DELETE("/v1/cart/items/:id", m.public(api.RemoveCartItem))

	router.GET("/fragments/:id", m.public(api.GetFragment))
	return router
}
