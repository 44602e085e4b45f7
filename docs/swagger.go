package docs

import "github.com/swaggo/swag"

// @title           Task Planner API
// @version         1.0
// @description     API for managing tasks, categories, goals, templates and reminders

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token

// @tag.name Users
// @tag.description Registration and authentication

// @tag.name Tasks
// @tag.description Task management operations

// @tag.name Categories
// @tag.description Category management operations

// @tag.name Priorities
// @tag.description Priority level catalog

// @tag.name Goals
// @tag.description Goal tracking and task linking

// @tag.name Templates
// @tag.description Reusable task templates

// @tag.name Settings
// @tag.description Per-user settings

// @tag.name Analytics
// @tag.description Productivity statistics

// @tag.name Search
// @tag.description Cross-entity search

// @tag.name Notifications
// @tag.description Reminder worker control

// @tag.name System
// @tag.description Health and database introspection

// SwaggerInfo holds the exported API metadata consumed by the swagger UI.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Task Planner API",
	Description:      "API for managing tasks, categories, goals, templates and reminders",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

const docTemplate = `{
    "schemes": ["http"],
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {}
}`

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
