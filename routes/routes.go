package routes

import (
	"github.com/gofiber/fiber/v2"

	"secretshare-backend/controllers"
	"secretshare-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Secret sharing. Creation and retrieval work anonymously; a valid
	// bearer token attributes ownership when present.
	share := api.Group("", middlewares.OptionalAuth())
	share.Post("/secrets", controllers.CreateSecret)
	share.Get("/secrets/:token", controllers.GetSecret) // consuming read
	share.Delete("/secrets/:token", controllers.DeleteSecret)

	share.Post("/files", controllers.UploadFile)
	share.Get("/files/:token", controllers.DownloadFile) // consuming read
	share.Delete("/files/:token", controllers.DeleteFile)

	// Respondent side of a secret request: fetch the prompt, submit the
	// answer. No account needed.
	share.Get("/requests/:token", controllers.GetSecretRequestForClient)
	share.Post("/requests/:token/submit", controllers.SubmitSecretRequest)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard for mutating authenticated calls. Consuming reads
	// are GETs and stay outside it on purpose.
	protected.Use(middlewares.Idempotency())

	protected.Get("/me", controllers.Me)

	// Owner views; listing never consumes views.
	protected.Get("/secrets", controllers.ListSecrets)

	// Requester side of secret requests, addressed by id rather than token.
	protected.Post("/requests", controllers.CreateSecretRequest)
	protected.Get("/requests", controllers.ListSecretRequests)
	protected.Get("/requests/id/:id", controllers.GetSecretRequest)
	protected.Delete("/requests/id/:id", controllers.DeleteSecretRequest)

	// Organizations
	protected.Post("/organizations", controllers.CreateOrganization)
	protected.Get("/organizations", controllers.ListOrganizations)
	protected.Get("/organizations/:id", controllers.GetOrganization)
	protected.Delete("/organizations/:id", controllers.DeleteOrganization)
	protected.Post("/organizations/:id/members", controllers.AddOrganizationMember)
	protected.Get("/organizations/:id/members", controllers.ListOrganizationMembers)
	protected.Delete("/organizations/:id/members/:userId", controllers.RemoveOrganizationMember)
}
