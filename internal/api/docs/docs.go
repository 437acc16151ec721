// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g internal/api/router.go -o internal/api/docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
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
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}
            }
        },
        "/users": {
            "get": {"tags": ["users"], "summary": "List users", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}},
            "post": {
                "tags": ["users"],
                "summary": "Register a new user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/registerRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Update the current user",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/updateUserRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Delete the current user and their cats",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/users/check-token": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Inspect the current token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/users/token": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Inspect the current token (alias of /users/check-token)", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/users/{id}": {
            "get": {
                "tags": ["users"],
                "summary": "Get a user",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/cats": {
            "get": {"tags": ["cats"], "summary": "List cats", "responses": {"200": {"description": "OK"}}},
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["cats"],
                "summary": "Create a cat",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/createCatRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/cats/area": {
            "get": {
                "tags": ["cats"],
                "summary": "List cats in a bounding box",
                "parameters": [
                    {"type": "number", "name": "minLat", "in": "query", "required": true},
                    {"type": "number", "name": "maxLat", "in": "query", "required": true},
                    {"type": "number", "name": "minLon", "in": "query", "required": true},
                    {"type": "number", "name": "maxLon", "in": "query", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}
            }
        },
        "/cats/user": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["cats"], "summary": "List my cats", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}
        },
        "/cats/{id}": {
            "get": {
                "tags": ["cats"],
                "summary": "Get a cat",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["cats"],
                "summary": "Update a cat",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/updateCatRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["cats"],
                "summary": "Delete a cat",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        }
    },
    "definitions": {
        "loginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "registerRequest": {
            "type": "object",
            "properties": {"user_name": {"type": "string", "minLength": 2}, "email": {"type": "string", "minLength": 5}, "password": {"type": "string", "minLength": 8}}
        },
        "updateUserRequest": {
            "type": "object",
            "properties": {"user_name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "location": {
            "type": "object",
            "properties": {"type": {"type": "string", "enum": ["Point"]}, "coordinates": {"type": "array", "items": {"type": "number"}, "minItems": 2, "maxItems": 2}}
        },
        "createCatRequest": {
            "type": "object",
            "properties": {
                "cat_name": {"type": "string", "minLength": 2},
                "weight": {"type": "number"},
                "filename": {"type": "string"},
                "birthdate": {"type": "string", "example": "2020-01-01"},
                "location": {"$ref": "#/definitions/location"}
            }
        },
        "updateCatRequest": {
            "type": "object",
            "properties": {
                "cat_name": {"type": "string"},
                "weight": {"type": "number"},
                "owner": {"type": "string"},
                "filename": {"type": "string"},
                "birthdate": {"type": "string"},
                "location": {"$ref": "#/definitions/location"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cats API",
	Description:      "Users, sessions and geolocated cats.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
