package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sharebin API",
        "description": "Paste and file sharing with password gates, burn-after-read and per-key rate limits.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Shares", "description": "Share lifecycle actions"},
        {"name": "Links", "description": "Direct links for pages and embedding"},
        {"name": "System", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["System"],
                "summary": "Readiness check (database ping)",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/v1/create": {
            "post": {
                "tags": ["Shares"],
                "summary": "Create a paste",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/CreateShareRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/CreateShareResponse"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/Error"}},
                    "401": {"description": "Missing or invalid API key", "schema": {"$ref": "#/definitions/Error"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/upload": {
            "post": {
                "tags": ["Shares"],
                "summary": "Upload a file",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"in": "formData", "name": "file", "type": "file", "required": true},
                    {"in": "formData", "name": "title", "type": "string"},
                    {"in": "formData", "name": "expiration", "type": "string", "enum": ["never", "1h", "1d", "1w", "1m", "3m", "1y"]},
                    {"in": "formData", "name": "password", "type": "string"},
                    {"in": "formData", "name": "burn_after_read", "type": "boolean"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/UploadShareResponse"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/get": {
            "get": {
                "tags": ["Shares"],
                "summary": "Read a share",
                "description": "Password-protected shares return metadata only. A burn-after-read file share returns its bytes base64-encoded in file_data, since its blob is deleted by the read.",
                "parameters": [
                    {"in": "query", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Full view or gated metadata", "schema": {"$ref": "#/definitions/ShareView"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}},
                    "410": {"description": "Expired", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "post": {
                "tags": ["Shares"],
                "summary": "Unlock a password-protected share",
                "consumes": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "id", "type": "string", "required": true},
                    {"in": "query", "name": "verify", "type": "string", "required": true, "enum": ["1"]},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyShareRequest"}}
                ],
                "responses": {
                    "200": {"description": "Full view", "schema": {"$ref": "#/definitions/ShareView"}},
                    "401": {"description": "Invalid password", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/raw": {
            "get": {
                "tags": ["Shares"],
                "summary": "Raw share content",
                "produces": ["text/plain", "application/octet-stream"],
                "parameters": [
                    {"in": "query", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Content bytes"},
                    "403": {"description": "Password protected", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/img": {
            "get": {
                "tags": ["Shares"],
                "summary": "Uploaded file bytes",
                "parameters": [
                    {"in": "query", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "File bytes with stored content type"},
                    "403": {"description": "Password protected", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/v1/list": {
            "get": {
                "tags": ["Shares"],
                "summary": "List the caller's shares",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListSharesResponse"}}
                }
            }
        },
        "/api/v1/delete": {
            "delete": {
                "tags": ["Shares"],
                "summary": "Delete an owned share",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"in": "query", "name": "id", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted"},
                    "403": {"description": "Not the owner", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/p/{id}": {
            "get": {
                "tags": ["Links"],
                "summary": "Share page redirect",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"302": {"description": "Redirect to the get action"}}
            }
        },
        "/embed/{id}": {
            "get": {
                "tags": ["Links"],
                "summary": "Embeddable read-only view",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ShareView"}},
                    "403": {"description": "Protected or burn-after-read", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "retry_after": {"type": "integer"}
            }
        },
        "CreateShareRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {
                "content": {"type": "string"},
                "title": {"type": "string"},
                "syntax": {"type": "string"},
                "expiration": {"type": "string", "enum": ["never", "1h", "1d", "1w", "1m", "3m", "1y"]},
                "password": {"type": "string"},
                "burn_after_read": {"type": "boolean"}
            }
        },
        "VerifyShareRequest": {
            "type": "object",
            "properties": {"password": {"type": "string"}}
        },
        "CreateShareResponse": {
            "type": "object",
            "properties": {
                "paste_id": {"type": "string"},
                "url": {"type": "string"},
                "protected": {"type": "boolean"},
                "burn_after_read": {"type": "boolean"}
            }
        },
        "UploadShareResponse": {
            "type": "object",
            "properties": {
                "paste_id": {"type": "string"},
                "url": {"type": "string"},
                "protected": {"type": "boolean"},
                "burn_after_read": {"type": "boolean"},
                "direct_url": {"type": "string"},
                "file_name": {"type": "string"},
                "file_size": {"type": "integer"},
                "content_type": {"type": "string", "enum": ["image", "document", "archive"]}
            }
        },
        "ShareView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "content": {"type": "string"},
                "syntax": {"type": "string"},
                "title": {"type": "string"},
                "expires_at": {"type": "string", "format": "date-time"},
                "created_at": {"type": "string", "format": "date-time"},
                "views": {"type": "integer"},
                "protected": {"type": "boolean"},
                "burn_after_read": {"type": "boolean"},
                "burned": {"type": "boolean"},
                "content_type": {"type": "string"},
                "file_path": {"type": "string"},
                "file_name": {"type": "string"},
                "file_size": {"type": "integer"},
                "file_type": {"type": "string"},
                "direct_url": {"type": "string"},
                "file_data": {"type": "string", "format": "byte"}
            }
        },
        "ShareSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "syntax": {"type": "string"},
                "content_type": {"type": "string"},
                "protected": {"type": "boolean"},
                "burn_after_read": {"type": "boolean"},
                "views": {"type": "integer"},
                "expires_at": {"type": "string", "format": "date-time"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "ListSharesResponse": {
            "type": "object",
            "properties": {
                "pastes": {"type": "array", "items": {"$ref": "#/definitions/ShareSummary"}},
                "count": {"type": "integer"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
