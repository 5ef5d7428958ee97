package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Healthcare Workforce Deployment API",
        "description": "Workforce registry and outbreak deployment coordination for healthcare workers",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Operator authentication"},
        {"name": "Registry", "description": "Districts, organizations, facilities, competencies and workers"},
        {"name": "Trainings", "description": "Worker trainings and certificates"},
        {"name": "Availability", "description": "Worker availability timeline"},
        {"name": "Deployments", "description": "Candidate selection, planning and archival"},
        {"name": "Dashboard", "description": "Registry summary"},
        {"name": "COVID", "description": "National COVID-19 snapshots"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current operator",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/workers": {
            "get": {
                "tags": ["Registry"],
                "summary": "List healthcare workers",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "district", "in": "query", "type": "string"},
                    {"name": "organization", "in": "query", "type": "string"},
                    {"name": "gender", "in": "query", "type": "string"},
                    {"name": "is_active", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/deployments/candidates": {
            "post": {
                "tags": ["Deployments"],
                "summary": "Rank deployment candidates",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CandidateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "District not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/deployments/plan": {
            "post": {
                "tags": ["Deployments"],
                "summary": "Select candidates and create deployments in one step",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PlanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/deployments": {
            "get": {
                "tags": ["Deployments"],
                "summary": "List deployments",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "district_id", "in": "query", "type": "string"},
                    {"name": "outbreak_type", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Deployments"],
                "summary": "Create deployments for selected workers",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDeploymentsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/deployments/stats": {
            "get": {
                "tags": ["Deployments"],
                "summary": "Deployment counters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/deployments/archive": {
            "post": {
                "tags": ["Deployments"],
                "summary": "Archive every active deployment",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/ArchiveDeploymentsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/deployments/export": {
            "get": {
                "tags": ["Deployments"],
                "summary": "Export active deployments",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf", "text/csv", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["pdf", "csv", "xlsx"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/deployment-history": {
            "get": {
                "tags": ["Deployments"],
                "summary": "List archived deployments",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Registry summary",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "district", "in": "query", "type": "string"},
                    {"name": "gender", "in": "query", "type": "string"},
                    {"name": "organization", "in": "query", "type": "string"},
                    {"name": "facility_type", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/covid-snapshots/sync": {
            "post": {
                "tags": ["COVID"],
                "summary": "Queue a snapshot sync",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CandidateRequest": {
            "type": "object",
            "properties": {
                "district_id": {"type": "string"},
                "outbreak_type": {"type": "string", "enum": ["COVID-19", "Cholera", "Polio", "Ebola", "Other"]},
                "number_of_workers": {"type": "integer"},
                "required_positions": {"type": "array", "items": {"type": "string"}},
                "required_competencies": {"type": "array", "items": {"type": "string"}},
                "start_date": {"type": "string", "format": "date"},
                "estimated_duration_days": {"type": "integer"}
            },
            "required": ["district_id", "outbreak_type", "number_of_workers", "start_date"]
        },
        "PlanRequest": {
            "type": "object",
            "allOf": [{"$ref": "#/definitions/CandidateRequest"}],
            "properties": {
                "urgency": {"type": "string", "enum": ["low", "medium", "high", "critical"]},
                "deployment_name": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "DeploymentAssignment": {
            "type": "object",
            "properties": {
                "worker_id": {"type": "string"},
                "role": {"type": "string"}
            },
            "required": ["worker_id"]
        },
        "CreateDeploymentsRequest": {
            "type": "object",
            "properties": {
                "district_id": {"type": "string"},
                "outbreak_type": {"type": "string"},
                "start_date": {"type": "string", "format": "date"},
                "estimated_duration_days": {"type": "integer"},
                "required_positions": {"type": "array", "items": {"type": "string"}},
                "urgency": {"type": "string"},
                "deployment_name": {"type": "string"},
                "notes": {"type": "string"},
                "workers": {"type": "array", "items": {"$ref": "#/definitions/DeploymentAssignment"}}
            },
            "required": ["district_id", "outbreak_type", "start_date", "workers"]
        },
        "ArchiveDeploymentsRequest": {
            "type": "object",
            "properties": {
                "completion_notes": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
