package images

import "github.com/gofiber/fiber/v3"

func RegisterRoutes(r fiber.Router) {
	r.Get("/documents/:docID/images", HandleList)
}
