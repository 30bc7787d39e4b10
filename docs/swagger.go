// Package docs provides Swagger documentation for the API.
package docs

// @title Strategy Services API
// @version 1.0
// @description API for marketing strategy content generation and tracking

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
