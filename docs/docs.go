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
            "get": {
                "tags": ["Health"],
                "summary": "Health Check",
                "description": "Check if server is running",
                "responses": {
                    "200": {
                        "description": "Server is healthy"
                    }
                }
            }
        },
        "/health/detailed": {
            "get": {
                "tags": ["Health"],
                "summary": "Detailed Health Check",
                "description": "Load every collection and report record counts",
                "responses": {
                    "200": {
                        "description": "All collections readable"
                    },
                    "503": {
                        "description": "A collection or the database is unavailable"
                    }
                }
            }
        },
        "/items": {
            "get": {
                "tags": ["Items"],
                "summary": "List items",
                "produces": ["application/json"],
                "parameters": [
                    {"$ref": "#/parameters/ownerIdQuery"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/RecordList"}
                }
            },
            "post": {
                "tags": ["Items"],
                "summary": "Create item",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"$ref": "#/parameters/recordBody"}
                ],
                "responses": {
                    "201": {"$ref": "#/responses/Record"},
                    "400": {"$ref": "#/responses/Message"}
                }
            }
        },
        "/items/{id}": {
            "put": {
                "tags": ["Items"],
                "summary": "Update item",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"$ref": "#/parameters/idPath"},
                    {"$ref": "#/parameters/recordBody"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Record"},
                    "400": {"$ref": "#/responses/Message"},
                    "404": {"$ref": "#/responses/Message"}
                }
            },
            "delete": {
                "tags": ["Items"],
                "summary": "Delete item",
                "parameters": [
                    {"$ref": "#/parameters/idPath"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"$ref": "#/responses/Message"}
                }
            }
        },
        "/categories": {
            "get": {
                "tags": ["Categories"],
                "summary": "List categories",
                "produces": ["application/json"],
                "parameters": [
                    {"$ref": "#/parameters/ownerIdQuery"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/RecordList"}
                }
            },
            "post": {
                "tags": ["Categories"],
                "summary": "Create category",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"$ref": "#/parameters/recordBody"}
                ],
                "responses": {
                    "201": {"$ref": "#/responses/Record"},
                    "400": {"$ref": "#/responses/Message"}
                }
            }
        },
        "/categories/{id}": {
            "put": {
                "tags": ["Categories"],
                "summary": "Update category",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"$ref": "#/parameters/idPath"},
                    {"$ref": "#/parameters/recordBody"}
                ],
                "responses": {
                    "200": {"$ref": "#/responses/Record"},
                    "400": {"$ref": "#/responses/Message"},
                    "404": {"$ref": "#/responses/Message"}
                }
            },
            "delete": {
                "tags": ["Categories"],
                "summary": "Delete category",
                "parameters": [
                    {"$ref": "#/parameters/idPath"},
                    {
                        "in": "query",
                        "name": "ownerId",
                        "type": "integer",
                        "required": true,
                        "description": "Owner of the category"
                    }
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "400": {"$ref": "#/responses/Message"},
                    "404": {"$ref": "#/responses/Message"}
                }
            }
        }
    },
    "parameters": {
        "ownerIdQuery": {
            "in": "query",
            "name": "ownerId",
            "type": "integer",
            "required": false,
            "description": "Only return records of this owner"
        },
        "idPath": {
            "in": "path",
            "name": "id",
            "type": "integer",
            "required": true
        },
        "recordBody": {
            "in": "body",
            "name": "record",
            "required": true,
            "schema": {"$ref": "#/definitions/Record"}
        }
    },
    "responses": {
        "Record": {
            "description": "Stored record",
            "schema": {"$ref": "#/definitions/Record"}
        },
        "RecordList": {
            "description": "Records in collection order",
            "schema": {
                "type": "array",
                "items": {"$ref": "#/definitions/Record"}
            }
        },
        "Message": {
            "description": "Error",
            "schema": {"$ref": "#/definitions/Message"}
        }
    },
    "definitions": {
        "Record": {
            "type": "object",
            "properties": {
                "id": {"type": "integer", "readOnly": true},
                "ownerId": {"type": "integer"}
            },
            "additionalProperties": true
        },
        "Message": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Inventra API",
	Description:      "Owner-scoped items and categories",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
