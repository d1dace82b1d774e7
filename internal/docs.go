package internal

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"gopkg.in/yaml.v3"
)

// swaggerYAML renders the JSON swagger document as block-style YAML. JSON is
// valid YAML, so the document is parsed as a node tree to keep key order.
func swaggerYAML(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	blockStyle(&doc)
	return yaml.Marshal(&doc)
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}

func serveSwaggerYAML(c *fiber.Ctx) error {
	out, err := swaggerYAML(DocsPath)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "swagger document not found")
	}
	c.Set(fiber.HeaderContentType, "application/yaml")
	return c.Send(out)
}
