// Package docs registers the OpenAPI description served under /swagger.
// It follows the layout emitted by swag init; keep it in sync with the
// handler annotations when routes change.
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
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Root",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MessageResponse"}}
                }
            }
        },
        "/login": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "登入使用者",
                "parameters": [
                    {"type": "string", "description": "使用者名稱", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "使用者密碼", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/ping": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health Check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.PingResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.UserListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Create a new user",
                "parameters": [
                    {"description": "使用者資料", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.CreateUserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/users/change-password": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Change own password",
                "parameters": [
                    {"description": "舊密碼與新密碼", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.ChangePasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MessageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/users/{user_id}": {
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Delete a user by ID",
                "parameters": [
                    {"type": "integer", "description": "使用者 ID", "name": "user_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.MessageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/reports": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "List report rows",
                "parameters": [
                    {"type": "integer", "default": 1000, "description": "筆數上限 (1-10000)", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "起始位移", "name": "offset", "in": "query"},
                    {"type": "integer", "description": "限定 ward", "name": "ward_id", "in": "query"},
                    {"type": "string", "description": "起始日 YYYY-MM-DD", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "結束日 YYYY-MM-DD", "name": "end_date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ReportListResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        },
        "/reports/export": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"],
                "tags": ["reports"],
                "summary": "Export dashboard report",
                "parameters": [
                    {"enum": ["xlsx", "csv"], "type": "string", "default": "xlsx", "name": "format", "in": "query"},
                    {"enum": ["Ngày", "Tuần"], "type": "string", "default": "Ngày", "name": "group_by", "in": "query"},
                    {"type": "string", "description": "起始日 YYYY-MM-DD", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "結束日 YYYY-MM-DD", "name": "end_date", "in": "query"},
                    {"type": "integer", "description": "限定 ward", "name": "ward_id", "in": "query"},
                    {"type": "integer", "default": 10000, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/api.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {"detail": {"type": "string", "example": "Invalid credentials"}}
        },
        "api.MessageResponse": {
            "type": "object",
            "properties": {"msg": {"type": "string", "example": "API is running!"}}
        },
        "api.PingResponse": {
            "type": "object",
            "properties": {"message": {"type": "string", "example": "pong"}}
        },
        "api.LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string", "example": "bearer"},
                "expires_at": {"type": "string"}
            }
        },
        "api.CreateUserRequest": {
            "type": "object",
            "required": ["username", "password", "role"],
            "properties": {
                "username": {"type": "string", "example": "phuong1"},
                "password": {"type": "string", "example": "Secret123!"},
                "role": {"type": "string", "enum": ["admin", "city", "ward"]},
                "ward_id": {"type": "integer"},
                "city_id": {"type": "integer"}
            }
        },
        "api.ChangePasswordRequest": {
            "type": "object",
            "required": ["old_password", "new_password"],
            "properties": {
                "old_password": {"type": "string"},
                "new_password": {"type": "string"}
            }
        },
        "api.UserResponse": {
            "type": "object",
            "properties": {
                "user_id": {"type": "integer"},
                "username": {"type": "string"},
                "role": {"type": "string"},
                "ward_id": {"type": "integer"},
                "city_id": {"type": "integer"},
                "created_at": {"type": "string"}
            }
        },
        "api.UserListResponse": {
            "type": "object",
            "properties": {
                "users": {"type": "array", "items": {"$ref": "#/definitions/api.UserResponse"}},
                "success": {"type": "boolean"}
            }
        },
        "api.CreateUserResponse": {
            "type": "object",
            "properties": {
                "msg": {"type": "string"},
                "user": {"$ref": "#/definitions/api.UserResponse"}
            }
        },
        "api.ReportRow": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "ward_id": {"type": "integer"},
                "city_id": {"type": "integer"},
                "date": {"type": "string", "example": "2024-03-01"},
                "procedure": {"type": "string"},
                "count": {"type": "integer"},
                "age_group": {"type": "string"},
                "gender": {"type": "string"},
                "domain": {"type": "string"},
                "auth_type": {"type": "string"},
                "print_time": {"type": "integer"},
                "ward_name": {"type": "string"},
                "hour": {"type": "integer"}
            }
        },
        "api.ReportListResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/api.ReportRow"}},
                "total": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Kiosk Report API",
	Description:      "列印紀錄報表與匯出的後端 API 文件",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
