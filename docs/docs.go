// Package docs holds the OpenAPI description served on /swagger.
// Regenerate with: swag init -g cmd/lottopool/main.go
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
    "paths": {
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}},
        "/auth/accounts": {"post": {"tags": ["auth"], "summary": "Create an account with a role", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "403": {"description": "Forbidden"}, "409": {"description": "Conflict"}}}},
        "/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Logout", "responses": {"204": {"description": "No Content"}}}},
        "/auth/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current user", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/v1/lotteries": {"get": {"tags": ["lotteries"], "summary": "Supported lottery games", "responses": {"200": {"description": "OK"}}}},
        "/v1/pools": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["pools"], "summary": "List pools", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["pools"], "summary": "Open a pool", "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}
        },
        "/v1/pools/events": {"get": {"security": [{"BearerAuth": []}], "tags": ["pools"], "summary": "Pool change feed", "produces": ["text/event-stream"], "responses": {"200": {"description": "OK"}}}},
        "/v1/pools/{id}": {"patch": {"security": [{"BearerAuth": []}], "tags": ["pools"], "summary": "Patch a pool", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}},
        "/v1/pools/{id}/status": {"put": {"security": [{"BearerAuth": []}], "tags": ["pools"], "summary": "Change pool status", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}},
        "/v1/pools/{id}/summary": {"get": {"security": [{"BearerAuth": []}], "tags": ["pools"], "summary": "Cost and prize split of a pool", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/v1/pools/{id}/participants/{participantId}/payment": {"post": {"security": [{"BearerAuth": []}], "tags": ["pools"], "summary": "Toggle a participant's payment", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "participantId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/v1/pools/{id}/tickets/{ticketId}/receipt": {"post": {"security": [{"BearerAuth": []}], "tags": ["pools"], "summary": "Attach a ticket receipt", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "string", "name": "ticketId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/v1/me/pools": {"get": {"security": [{"BearerAuth": []}], "tags": ["pools"], "summary": "Pools the caller takes part in", "parameters": [{"type": "string", "name": "status", "in": "query"}], "responses": {"200": {"description": "OK"}}}},
        "/v1/groups": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["groups"], "summary": "List groups", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["groups"], "summary": "Create a group", "responses": {"201": {"description": "Created"}}}
        },
        "/v1/groups/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["groups"], "summary": "Get a group", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["groups"], "summary": "Patch a group", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/v1/groups/{id}/participants": {"post": {"security": [{"BearerAuth": []}], "tags": ["groups"], "summary": "Add a participant to a group", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}, "404": {"description": "Not Found"}}}},
        "/v1/participants": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["participants"], "summary": "List participants", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["participants"], "summary": "Register a participant", "responses": {"201": {"description": "Created"}}}
        },
        "/v1/participants/{id}": {"patch": {"security": [{"BearerAuth": []}], "tags": ["participants"], "summary": "Patch a participant", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}},
        "/v1/invites/resolve": {"get": {"tags": ["invites"], "summary": "Extract the group id of an invite link", "parameters": [{"type": "string", "name": "link", "in": "query", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/v1/invites/{groupId}": {"get": {"tags": ["invites"], "summary": "Start or resume an invite", "parameters": [{"type": "string", "name": "groupId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/v1/invites/{groupId}/fields": {"put": {"tags": ["invites"], "summary": "Save invite form fields", "parameters": [{"type": "string", "name": "groupId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/v1/invites/{groupId}/next": {"post": {"tags": ["invites"], "summary": "Validate the current step and advance", "parameters": [{"type": "string", "name": "groupId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}}},
        "/v1/invites/{groupId}/back": {"post": {"tags": ["invites"], "summary": "Go back one step", "parameters": [{"type": "string", "name": "groupId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/v1/invites/{groupId}/submit": {"post": {"tags": ["invites"], "summary": "Complete the invite", "parameters": [{"type": "string", "name": "groupId", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}}
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
	Title:            "Lottopool API",
	Description:      "Local-first agent for lottery betting pools.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
