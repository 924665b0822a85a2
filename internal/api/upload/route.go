package upload

import "github.com/gofiber/fiber/v3"

// RegisterRoutes mounts the document upload endpoint.
func RegisterRoutes(r fiber.Router) {
	r.Post("/upload", HandleUpload)
}
