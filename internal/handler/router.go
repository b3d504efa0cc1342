/*
Package handler provides the HTTP handlers and routing setup for the uminion server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"uminion/internal/pkg/auth/jwt"
	"uminion/internal/pkg/limiter"
	"uminion/internal/pkg/logx"
	"uminion/internal/pkg/resp"
)

const (
	AuthRate  = 0.2
	AuthBurst = 5

	ConnectRate  = 0.5
	ConnectBurst = 10
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "uminion server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.Use(authLimiter.Middleware)

			auth.Post("/register", HandleRegister(deps))
			auth.Post("/login", HandleLogin(deps))
			auth.Post("/change-password", HandleChangePassword(deps))
		})

		api.Route("/user", func(user chi.Router) {
			user.Get("/profile", HandleGetProfile(deps))
			user.Post("/profile", HandleUpdateProfile(deps))
			user.Get("/{username}", HandleGetUser(deps))
		})

		api.Route("/friends", func(friends chi.Router) {
			friends.Get("/", HandleFriendList(deps))
			friends.Post("/request", HandleFriendRequest(deps))
			friends.Post("/accept", HandleFriendAccept(deps))
			friends.Delete("/{username}", HandleFriendRemove(deps))
		})

		api.Route("/products", func(products chi.Router) {
			products.Post("/", HandleProductCreate(deps))
			products.Get("/main", HandleProductListMain(deps))
			products.Get("/store/{storeID}", HandleProductListStore(deps))
			products.Get("/user/{username}", HandleProductListUser(deps))
			products.Get("/mine", HandleProductListMine(deps))
			products.Get("/trash", HandleProductListTrash(deps))
			products.Put("/{productID}", HandleProductUpdate(deps))
			products.Delete("/{productID}", HandleProductTrash(deps))
			products.Post("/{productID}/restore", HandleProductRestore(deps))
		})

		api.Route("/cart", func(cart chi.Router) {
			cart.Get("/", HandleCartList(deps))
			cart.Post("/", HandleCartAdd(deps))
			cart.Delete("/{productID}", HandleCartRemove(deps))
		})

		api.Route("/wants", func(wants chi.Router) {
			wants.Get("/", HandleWantList(deps))
			wants.Post("/", HandleWantCreate(deps))
			wants.Delete("/{wantID}", HandleWantDelete(deps))
		})

		api.Post("/file/presign-upload", HandlePresignUpload(deps))
		api.Get("/file/presign-download", HandlePresignDownload(deps))
	})

	r.With(connectLimiter.Middleware).Get("/ws", HandleChatSocket(deps))

	return r
}
