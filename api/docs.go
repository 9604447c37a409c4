// Package api holds the OpenAPI description of the API. Regenerate it with
// "swag init" from the repository root after changing handler annotations.
package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {"tags": ["General"], "summary": "API root", "responses": {"200": {"description": "OK"}}},
            "options": {"tags": ["General"], "summary": "Allowed HTTP verbs", "responses": {"204": {"description": "No Content"}}}
        },
        "/healthz": {
            "get": {"tags": ["General"], "summary": "Get health", "responses": {"204": {"description": "No Content"}, "500": {"description": "Internal Server Error"}}}
        },
        "/version": {
            "get": {"tags": ["General"], "summary": "API version", "responses": {"200": {"description": "OK"}}}
        },
        "/v1": {
            "get": {"tags": ["v1"], "summary": "v1 API", "responses": {"200": {"description": "OK"}}}
        },
        "/v1/budgets": {
            "get": {"tags": ["Budgets"], "summary": "List budgets", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "post": {"tags": ["Budgets"], "summary": "Create budgets", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/v1/budgets/stream": {
            "get": {"tags": ["Budgets"], "summary": "Stream budgets", "produces": ["text/event-stream"], "responses": {"200": {"description": "OK"}}}
        },
        "/v1/budgets/{id}": {
            "get": {"tags": ["Budgets"], "summary": "Get budget", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["Budgets"], "summary": "Update budget", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Budgets"], "summary": "Delete budget", "responses": {"204": {"description": "No Content"}}}
        },
        "/v1/budgets/{id}/stream": {
            "get": {"tags": ["Budgets"], "summary": "Stream budget", "produces": ["text/event-stream"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/v1/budgets/{id}/export": {
            "get": {"tags": ["Budgets"], "summary": "Export budget", "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/v1/categories": {
            "get": {"tags": ["Categories"], "summary": "List categories", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "post": {"tags": ["Categories"], "summary": "Create categories", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/v1/categories/{id}": {
            "get": {"tags": ["Categories"], "summary": "Get category", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["Categories"], "summary": "Update category", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Categories"], "summary": "Delete category", "responses": {"204": {"description": "No Content"}}}
        },
        "/v1/expenses": {
            "get": {"tags": ["Expenses"], "summary": "List expenses", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "post": {"tags": ["Expenses"], "summary": "Create expenses", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}},
            "delete": {"tags": ["Expenses"], "summary": "Delete expenses", "responses": {"204": {"description": "No Content"}}}
        },
        "/v1/expenses/stream": {
            "get": {"tags": ["Expenses"], "summary": "Stream expenses", "produces": ["text/event-stream"], "responses": {"200": {"description": "OK"}}}
        },
        "/v1/expenses/{id}": {
            "get": {"tags": ["Expenses"], "summary": "Get expense", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "patch": {"tags": ["Expenses"], "summary": "Update expense", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["Expenses"], "summary": "Delete expense", "responses": {"204": {"description": "No Content"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
