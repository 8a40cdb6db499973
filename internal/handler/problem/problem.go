// Package problem writes RFC 7807 error bodies.
package problem

import (
	"github.com/gofiber/fiber/v2"
)

// ContentType is the media type of problem responses.
const ContentType = "application/problem+json"

const typeBase = "https://ponto.dev/problems/"

// Details represents an error response in the API, according to RFC 7807.
type Details struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// Write sends a problem response. slug names the problem type.
func Write(c *fiber.Ctx, status int, slug, title, detail string) error {
	body := Details{
		Type:     typeBase + slug,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.OriginalURL(),
	}
	c.Status(status)
	if err := c.JSON(body); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, ContentType)
	return nil
}
