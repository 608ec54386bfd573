// Package docs OrgHub API documentation
package docs

// Swagger documentation info
// @title OrgHub API
// @version 1.0
// @description Account and organization management backend
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@orghub.dev

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
// @BasePath /api/v0
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT token.

// @tag.name users
// @tag.description Registration, authentication and password reset

// @tag.name organizations
// @tag.description Organization management and invitations
