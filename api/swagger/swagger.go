package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Apprenticeships API",
        "description": "Apprenticeship levy tracking: apprentices, levy transactions, CSV ingestion, analytics and exports. Write payloads may carry enum fields as zero-based ordinals or literal labels; responses always carry labels.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Apprentices", "description": "Apprentice records and CSV ingestion"},
        {"name": "Transactions", "description": "Levy transactions and CSV ingestion"},
        {"name": "AuditLogs", "description": "Change history"},
        {"name": "Analytics", "description": "Aggregated programme statistics"},
        {"name": "Exports", "description": "Asynchronous CSV/PDF exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/Apprentices/all": {
            "get": {
                "tags": ["Apprentices"],
                "summary": "List all apprentices with transactions",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Apprentice"}}}
                }
            }
        },
        "/Apprentices/find": {
            "get": {
                "tags": ["Apprentices"],
                "summary": "Find apprentices by filter",
                "parameters": [
                    {"name": "startDate", "in": "query", "type": "string", "description": "RFC 3339 or YYYY-MM-DD"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "directorate", "in": "query", "type": "string", "description": "ordinal or label"},
                    {"name": "apprenticeProgram", "in": "query", "type": "string", "description": "ordinal or label"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Apprentice"}}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/Apprentices/create": {
            "post": {
                "tags": ["Apprentices"],
                "summary": "Create an apprentice",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Apprentice"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Apprentice"}},
                    "400": {"description": "Validation failure", "schema": {"$ref": "#/definitions/APIError"}},
                    "409": {"description": "Duplicate ULN", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/Apprentices/upload": {
            "post": {
                "tags": ["Apprentices"],
                "summary": "Bulk-create apprentices",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/Apprentice"}}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "array", "items": {"$ref": "#/definitions/Apprentice"}}},
                    "400": {"description": "Row-level validation failure", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/Apprentices/ingest": {
            "post": {
                "tags": ["Apprentices"],
                "summary": "Ingest an apprentice CSV file",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/IngestResult"}},
                    "400": {"description": "Unsupported or malformed file", "schema": {"$ref": "#/definitions/APIError"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/Apprentices": {
            "patch": {
                "tags": ["Apprentices"],
                "summary": "Update an apprentice snapshot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Apprentice"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Apprentice"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/Apprentices/{id}": {
            "delete": {
                "tags": ["Apprentices"],
                "summary": "Delete an apprentice",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/Transactions/all": {
            "get": {
                "tags": ["Transactions"],
                "summary": "List all transactions with apprentice context",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Transaction"}}}
                }
            }
        },
        "/Transactions/find": {
            "get": {
                "tags": ["Transactions"],
                "summary": "Find transactions by filter",
                "parameters": [
                    {"name": "fromDate", "in": "query", "type": "string"},
                    {"name": "toDate", "in": "query", "type": "string"},
                    {"name": "description", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Transaction"}}},
                    "400": {"description": "Invalid filter", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/Transactions/create": {
            "post": {
                "tags": ["Transactions"],
                "summary": "Record a transaction",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Transaction"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Transaction"}},
                    "400": {"description": "Validation failure", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/Transactions/upload": {
            "post": {
                "tags": ["Transactions"],
                "summary": "Bulk-create transactions",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/Transaction"}}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "array", "items": {"$ref": "#/definitions/Transaction"}}},
                    "400": {"description": "Row-level validation failure", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/Transactions/ingest": {
            "post": {
                "tags": ["Transactions"],
                "summary": "Ingest a transaction CSV file",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/IngestResult"}},
                    "400": {"description": "Unsupported or malformed file", "schema": {"$ref": "#/definitions/APIError"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/Transactions": {
            "patch": {
                "tags": ["Transactions"],
                "summary": "Update a transaction snapshot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Transaction"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Transaction"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/Transactions/{id}": {
            "delete": {
                "tags": ["Transactions"],
                "summary": "Delete a transaction",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/AuditLogs": {
            "get": {
                "tags": ["AuditLogs"],
                "summary": "List audit log entries",
                "parameters": [
                    {"name": "eventType", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "pageSize", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AuditLogPage"}}
                }
            }
        },
        "/Analytics/summary": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Programme-wide aggregates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AnalyticsSummary"}}
                }
            }
        },
        "/Exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue an export job",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ExportJob"}},
                    "400": {"description": "Unknown dataset or format", "schema": {"$ref": "#/definitions/APIError"}},
                    "503": {"description": "Exports disabled", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/Exports/{id}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ExportJob"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        },
        "/Exports/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a finished export",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string", "description": "signed download token"}
                ],
                "produces": ["text/csv", "application/pdf"],
                "responses": {
                    "200": {"description": "File stream"},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/APIError"}}
                }
            }
        }
    },
    "definitions": {
        "Apprentice": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "startDate": {"type": "string"},
                "status": {"type": "string"},
                "uln": {"type": "integer"},
                "createdAt": {"type": "string"},
                "dateOfBirth": {"type": "string"},
                "apprenticeAchievement": {"type": "string", "description": "label in responses; ordinal or label in requests"},
                "apprenticeConfirmation": {"type": "string"},
                "apprenticeClassification": {"type": "string", "description": "label in responses; ordinal or label in requests"},
                "apprenticeEthnicity": {"type": "string", "description": "label in responses; ordinal or label in requests"},
                "apprenticeGender": {"type": "string", "description": "label in responses; ordinal or label in requests"},
                "apprenticeNonCompletionReason": {"type": "string", "description": "label in responses; ordinal or label in requests"},
                "apprenticeProgram": {"type": "string", "description": "label in responses; ordinal or label in requests"},
                "apprenticeProgression": {"type": "string", "description": "label in responses; ordinal or label in requests"},
                "apprenticeshipDelivery": {"type": "string"},
                "certificatesReceived": {"type": "string", "description": "label in responses; ordinal or label in requests"},
                "completionDate": {"type": "string"},
                "directorate": {"type": "string", "description": "label in responses; ordinal or label in requests"},
                "doeReference": {"type": "string"},
                "employeeNumber": {"type": "string"},
                "endDate": {"type": "string"},
                "endPointAssessor": {"type": "string"},
                "isCareLeaver": {"type": "boolean"},
                "isDisabled": {"type": "boolean"},
                "managerName": {"type": "string"},
                "managerTitle": {"type": "string"},
                "pauseDate": {"type": "string"},
                "post": {"type": "string"},
                "school": {"type": "string"},
                "totalAgreedApprenticeshipPrice": {"type": "number"},
                "trainingCourse": {"type": "string"},
                "trainingProvider": {"type": "string"},
                "ukprn": {"type": "integer"},
                "withdrawalDate": {"type": "string"},
                "transactions": {"type": "array", "items": {"$ref": "#/definitions/Transaction"}}
            },
            "required": ["name", "startDate", "status", "uln"]
        },
        "Transaction": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "description": {"type": "string"},
                "transactionDate": {"type": "string"},
                "transactionType": {"type": "string"},
                "createdAt": {"type": "string"},
                "courseLevel": {"type": "number"},
                "englishPercentage": {"type": "number"},
                "governmentContribution": {"type": "number"},
                "levyDeclared": {"type": "number"},
                "paidFromLevy": {"type": "number"},
                "payrollMonth": {"type": "string"},
                "tenPercentageTopUp": {"type": "number"},
                "total": {"type": "number"},
                "yourContribution": {"type": "number"},
                "apprenticeName": {"type": "string"},
                "apprenticeshipTrainingCourse": {"type": "string"},
                "payeScheme": {"type": "string"},
                "trainingProvider": {"type": "string"},
                "uln": {"type": "integer"},
                "apprenticeDirectorate": {"type": "string"},
                "apprenticeProgram": {"type": "string"},
                "apprenticeStatus": {"type": "string"}
            },
            "required": ["description", "transactionDate", "transactionType"]
        },
        "IngestResult": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"},
                "recordCount": {"type": "integer"},
                "inserted": {"type": "integer"},
                "errorCount": {"type": "integer"},
                "errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "AuditLog": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "eventType": {"type": "string"},
                "eventTypeTargetId": {"type": "string"},
                "status": {"type": "string"},
                "userId": {"type": "string"},
                "details": {"type": "object"},
                "createdAt": {"type": "string"}
            }
        },
        "AuditLogPage": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/AuditLog"}},
                "pagination": {"$ref": "#/definitions/Pagination"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "pageSize": {"type": "integer"},
                "totalCount": {"type": "integer"}
            }
        },
        "AnalyticsSummary": {
            "type": "object",
            "properties": {
                "totalApprentices": {"type": "integer"},
                "byStatus": {"type": "array", "items": {"$ref": "#/definitions/StatusCount"}},
                "byDirectorate": {"type": "array", "items": {"$ref": "#/definitions/StatusCount"}},
                "byProgram": {"type": "array", "items": {"$ref": "#/definitions/StatusCount"}},
                "monthlyLevy": {"type": "array", "items": {"$ref": "#/definitions/MonthlyLevyTotals"}},
                "totalAgreedPrice": {"type": "number"},
                "generatedAt": {"type": "string"}
            }
        },
        "StatusCount": {
            "type": "object",
            "properties": {
                "label": {"type": "string"},
                "count": {"type": "integer"}
            }
        },
        "MonthlyLevyTotals": {
            "type": "object",
            "properties": {
                "payrollMonth": {"type": "string"},
                "levyDeclared": {"type": "number"},
                "paidFromLevy": {"type": "number"},
                "governmentContribution": {"type": "number"},
                "total": {"type": "number"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "dataset": {"type": "string", "enum": ["apprentices", "transactions"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["dataset", "format"]
        },
        "ExportJob": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "dataset": {"type": "string"},
                "format": {"type": "string"},
                "status": {"type": "string", "enum": ["QUEUED", "RUNNING", "FINISHED", "FAILED"]},
                "downloadUrl": {"type": "string"},
                "errorMessage": {"type": "string"},
                "createdAt": {"type": "string"},
                "finishedAt": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
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
