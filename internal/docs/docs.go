// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with: swag init -g internal/api/router.go -o internal/docs
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "parameters": [{"$ref": "#/parameters/userID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.logoutResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Refresh token",
                "parameters": [{"$ref": "#/parameters/userID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.refreshResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user profile",
                "parameters": [{"$ref": "#/parameters/userID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.profileResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "parameters": [{"$ref": "#/parameters/userID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.userResponse"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a user",
                "parameters": [
                    {"$ref": "#/parameters/userID"},
                    {"description": "New user", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/users/check-username/{username}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Check username availability",
                "parameters": [
                    {"$ref": "#/parameters/userID"},
                    {"type": "string", "description": "Candidate username", "name": "username", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.usernameAvailabilityResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a user",
                "parameters": [{"$ref": "#/parameters/userID"}, {"$ref": "#/parameters/id"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update a user",
                "parameters": [
                    {"$ref": "#/parameters/userID"},
                    {"$ref": "#/parameters/id"},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Delete a user",
                "parameters": [{"$ref": "#/parameters/userID"}, {"$ref": "#/parameters/id"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/roles": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "List roles",
                "parameters": [{"$ref": "#/parameters/userID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.roleResponse"}}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "Create a role",
                "parameters": [
                    {"$ref": "#/parameters/userID"},
                    {"description": "New role", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createRoleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.roleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/roles/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "Get a role",
                "parameters": [{"$ref": "#/parameters/userID"}, {"$ref": "#/parameters/id"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.roleResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "Update a role",
                "parameters": [
                    {"$ref": "#/parameters/userID"},
                    {"$ref": "#/parameters/id"},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.roleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "Delete a role",
                "parameters": [{"$ref": "#/parameters/userID"}, {"$ref": "#/parameters/id"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/permissions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["permissions"],
                "summary": "List permissions",
                "parameters": [{"$ref": "#/parameters/userID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Permission"}}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        }
    },
    "parameters": {
        "userID": {"type": "string", "description": "Authenticated user id", "name": "x-user-id", "in": "header", "required": true},
        "id": {"type": "integer", "description": "Resource id", "name": "id", "in": "path", "required": true}
    },
    "definitions": {
        "domain.Permission": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "category": {"type": "string"},
                "resource": {"type": "string"},
                "action": {"type": "string"}
            }
        },
        "domain.Role": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "priority": {"type": "integer"},
                "isSystem": {"type": "boolean"},
                "permissions": {"type": "array", "items": {"$ref": "#/definitions/domain.Permission"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "domain.UserRef": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "fullName": {"type": "string"}
            }
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "rule": {"type": "string"},
                "userCount": {"type": "integer"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.sessionUserBlock": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "fullName": {"type": "string"},
                "email": {"type": "string"},
                "isSuperAdmin": {"type": "boolean"},
                "role": {"$ref": "#/definitions/domain.Role"},
                "permissions": {"type": "array", "items": {"$ref": "#/definitions/domain.Permission"}}
            }
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "token": {"type": "string"},
                "user": {"$ref": "#/definitions/handler.sessionUserBlock"}
            }
        },
        "handler.logoutResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "handler.refreshResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "token": {"type": "string"}
            }
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "username": {"type": "string"},
                "fullName": {"type": "string"},
                "email": {"type": "string"},
                "roleId": {"type": "integer"},
                "isActive": {"type": "boolean"},
                "isSuperAdmin": {"type": "boolean"},
                "createdBy": {"$ref": "#/definitions/domain.UserRef"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"},
                "role": {"$ref": "#/definitions/domain.Role"},
                "permissions": {"type": "array", "items": {"$ref": "#/definitions/domain.Permission"}}
            }
        },
        "handler.profileResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/handler.userResponse"}
            }
        },
        "handler.createUserRequest": {
            "type": "object",
            "required": ["username", "password", "fullName", "email", "roleId"],
            "properties": {
                "username": {"type": "string", "minLength": 3, "maxLength": 50},
                "password": {"type": "string", "minLength": 8},
                "fullName": {"type": "string", "minLength": 2, "maxLength": 100},
                "email": {"type": "string"},
                "roleId": {"type": "integer"},
                "isSuperAdmin": {"type": "boolean"}
            }
        },
        "handler.updateUserRequest": {
            "type": "object",
            "properties": {
                "fullName": {"type": "string", "minLength": 2, "maxLength": 100},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "roleId": {"type": "integer"},
                "isActive": {"type": "boolean"},
                "isSuperAdmin": {"type": "boolean"}
            }
        },
        "handler.usernameAvailabilityResponse": {
            "type": "object",
            "properties": {
                "available": {"type": "boolean"},
                "username": {"type": "string"}
            }
        },
        "handler.createRoleRequest": {
            "type": "object",
            "required": ["name", "priority"],
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "description": {"type": "string", "maxLength": 500},
                "priority": {"type": "integer", "minimum": 1, "maximum": 100},
                "permissions": {"type": "array", "items": {"$ref": "#/definitions/domain.Permission"}}
            }
        },
        "handler.updateRoleRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "maxLength": 100},
                "description": {"type": "string", "maxLength": 500},
                "priority": {"type": "integer", "minimum": 1, "maximum": 100},
                "permissions": {"type": "array", "items": {"$ref": "#/definitions/domain.Permission"}}
            }
        },
        "handler.roleResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "priority": {"type": "integer"},
                "isSystem": {"type": "boolean"},
                "permissions": {"type": "array", "items": {"$ref": "#/definitions/domain.Permission"}},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"},
                "userCount": {"type": "integer"},
                "permissionCount": {"type": "integer"},
                "permissionDetails": {"type": "array", "items": {"$ref": "#/definitions/domain.Permission"}}
            }
        },
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "dependencies": {"type": "object", "additionalProperties": {"$ref": "#/definitions/handler.dependencyStatus"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "RBAC API",
	Description:      "Hierarchical role-based access control for users and roles.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
