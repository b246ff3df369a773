// Package docs registers the OpenAPI description served under /swagger.
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
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Login",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/auth/register": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Register a new user",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/auth/logout": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"auth"
				],
				"summary": "Logout",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/session": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"pages"
				],
				"summary": "Current session",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/pages/{page}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"pages"
				],
				"summary": "Load a page",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "page",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/products": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"products"
				],
				"summary": "List products",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/products/search": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"products"
				],
				"summary": "Search products",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/products/{id}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"products"
				],
				"summary": "Get product",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/orders": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "List my orders",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Place an order",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/api/orders/{id}/status": {
			"patch": {
				"produces": [
					"application/json"
				],
				"tags": [
					"orders"
				],
				"summary": "Update order status",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/api/experts": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"experts"
				],
				"summary": "List experts",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/consultations": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"experts"
				],
				"summary": "Book a consultation",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/api/weather/{region}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"farming"
				],
				"summary": "Regional weather",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "region",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/plans": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"farming"
				],
				"summary": "My farming plans",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/stats": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"dashboard"
				],
				"summary": "Dashboard statistics",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/api/messages": {
			"post": {
				"produces": [
					"application/json"
				],
				"tags": [
					"messages"
				],
				"summary": "Send a message",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/api/messages/{peer}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"messages"
				],
				"summary": "Conversation with a peer",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "peer",
						"in": "path",
						"required": true
					}
				]
			}
		},
		"/api/profile": {
			"patch": {
				"produces": [
					"application/json"
				],
				"tags": [
					"profile"
				],
				"summary": "Update my profile",
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"type": "object"
						}
					}
				]
			}
		},
		"/api/admin/access": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"profile"
				],
				"summary": "Admin access check",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/health": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"health"
				],
				"summary": "Liveness probe",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/health/ready": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"health"
				],
				"summary": "Readiness probe",
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:		  "1.0",
	Host:			 "",
	BasePath:		 "/",
	Schemes:		  []string{},
	Title:			"Rashad Agricultural Marketplace API",
	Description:	  "Session-scoped pages, forms and marketplace operations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:		"{{",
	RightDelim:	   "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
