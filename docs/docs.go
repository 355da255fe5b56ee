// Package docs registers the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {"tags": ["health"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/prefs": {
            "get": {"tags": ["preferences"], "summary": "Current preferences", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/preferencesResponse"}}, "500": {"description": "Internal Server Error"}}}
        },
        "/prefs/dark-mode/toggle": {
            "post": {"tags": ["preferences"], "summary": "Toggle dark mode", "produces": ["application/json"],
                "description": "Flips dark mode for the visitor and emits a dark-mode tracking event.",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/preferencesResponse"}}, "500": {"description": "Internal Server Error"}}}
        },
        "/prefs/ama/toggle": {
            "post": {"tags": ["preferences"], "summary": "Toggle the AMA panel", "produces": ["application/json"],
                "description": "Opens or closes the Ask Me Anything panel and emits an ama tracking event.",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/preferencesResponse"}}, "500": {"description": "Internal Server Error"}}}
        },
        "/go/{label}": {
            "get": {"tags": ["links"], "summary": "Follow a footer link",
                "parameters": [{"type": "string", "name": "label", "in": "path", "required": true}],
                "responses": {"302": {"description": "Found"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/track": {
            "post": {"tags": ["tracking"], "summary": "Record a client-side event", "description": "Blank, referrer, dark-mode and ama types are rejected; click needs a label and is the only type that keeps href.", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/trackRequest"}}],
                "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}, "429": {"description": "Too Many Requests"}}}
        },
        "/auth/sign-in": {
            "post": {"tags": ["auth"], "summary": "Admin sign-in", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/authCredentials"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}}
        },
        "/api/v1/admin/events": {
            "get": {"tags": ["admin"], "summary": "List tracking events", "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "name": "from", "in": "query"},
                    {"type": "string", "name": "to", "in": "query"},
                    {"type": "string", "name": "type", "in": "query", "enum": ["referrer", "dark-mode", "ama", "click"]},
                    {"type": "string", "name": "visitor", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "count, events"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/v1/admin/stats": {
            "get": {"tags": ["admin"], "summary": "Tracking stats", "produces": ["application/json"],
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}}
        }
    },
    "definitions": {
        "preferencesResponse": {
            "type": "object",
            "properties": {
                "preferences": {
                    "type": "object",
                    "properties": {
                        "visitor_id": {"type": "string"},
                        "darkMode": {"type": "object", "properties": {"enabled": {"type": "boolean"}}},
                        "AMA": {"type": "object", "properties": {"isOpened": {"type": "boolean"}}},
                        "updated_at": {"type": "string"}
                    }
                },
                "root_class": {"type": "string"}
            }
        },
        "trackRequest": {
            "type": "object",
            "required": ["event_type"],
            "properties": {
                "event_type": {"type": "string"},
                "event_properties": {"type": "object", "additionalProperties": {"type": "string"}},
                "href": {"type": "string"}
            }
        },
        "authCredentials": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Portfolio API",
	Description:      "Homepage preferences, tracking beacon and admin tracking log.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
