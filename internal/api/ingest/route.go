package ingest

import "github.com/gofiber/fiber/v3"

// RegisterRoutes mounts the ingestion kick endpoint.
func RegisterRoutes(r fiber.Router) {
	r.Post("/ingest/:docID", HandleIngest)
}
