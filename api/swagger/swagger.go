package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "StudyPlan API",
        "description": "Daily study-schedule engine",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedules", "description": "Daily plan generation, editing and export"},
        {"name": "Tasks", "description": "Recurring and one-off commitments"},
        {"name": "Preferences", "description": "Study pacing and day window"},
        {"name": "Constraints", "description": "Blackout windows"},
        {"name": "System", "description": "Engine status"}
    ],
    "paths": {
        "/schedules/generate": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Generate the day plan for a date",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateScheduleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Plan already exists for the date"}
                }
            }
        },
        "/schedules": {
            "get": {
                "tags": ["Schedules"],
                "summary": "List recent day plans",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{date}": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Get the day plan for a date",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No plan for the date"}
                }
            },
            "delete": {
                "tags": ["Schedules"],
                "summary": "Delete the day plan for a date",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "No plan for the date"}
                }
            }
        },
        "/schedules/{date}/edit": {
            "post": {
                "tags": ["Schedules"],
                "summary": "Edit the day plan with a natural-language command",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EditScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Stale version"}
                }
            }
        },
        "/schedules/{date}/items/{itemId}/complete": {
            "patch": {
                "tags": ["Schedules"],
                "summary": "Mark a plan item done or not done",
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "itemId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": false, "schema": {"$ref": "#/definitions/CompleteItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedules/{date}/export": {
            "get": {
                "tags": ["Schedules"],
                "summary": "Export the day plan as CSV or PDF",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "date", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List the student's tasks",
                "parameters": [
                    {"name": "includeArchived", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Tasks"],
                "summary": "Declare a recurring or one-off task",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateTaskRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tasks/{id}": {
            "patch": {
                "tags": ["Tasks"],
                "summary": "Update a task's mutable fields",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateTaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Tasks"],
                "summary": "Delete a task permanently",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/tasks/{id}/complete": {
            "patch": {
                "tags": ["Tasks"],
                "summary": "Mark a task completed",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/tasks/{id}/archive": {
            "patch": {
                "tags": ["Tasks"],
                "summary": "Archive a task",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/preferences": {
            "get": {
                "tags": ["Preferences"],
                "summary": "Get study preferences",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Preferences"],
                "summary": "Replace study preferences",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePreferencesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/constraints": {
            "get": {
                "tags": ["Constraints"],
                "summary": "List blackout windows",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Constraints"],
                "summary": "Declare a blackout window",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateConstraintRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/constraints/{id}": {
            "delete": {
                "tags": ["Constraints"],
                "summary": "Remove a blackout window",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/status": {
            "get": {
                "tags": ["System"],
                "summary": "Engine activity snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateScheduleRequest": {
            "type": "object",
            "required": ["date"],
            "properties": {
                "date": {"type": "string", "example": "2026-03-02"},
                "goals": {"type": "array", "items": {"type": "string"}},
                "regenerate": {"type": "boolean"}
            }
        },
        "EditScheduleRequest": {
            "type": "object",
            "required": ["command"],
            "properties": {
                "command": {"type": "string", "example": "move the math lesson to the evening"},
                "version": {"type": "integer"}
            }
        },
        "CompleteItemRequest": {
            "type": "object",
            "properties": {
                "completed": {"type": "boolean"}
            }
        },
        "CreateTaskRequest": {
            "type": "object",
            "properties": {
                "rawInput": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "durationMinutes": {"type": "integer"},
                "preferredTime": {"type": "string", "enum": ["morning", "afternoon", "evening", "night", "anytime"]},
                "exactStartTime": {"type": "string", "example": "17:30"},
                "recurrence": {"type": "string", "enum": ["once", "daily", "weekdays", "weekends", "weekly", "custom"]},
                "daysOfWeek": {"type": "array", "items": {"type": "integer"}},
                "startDate": {"type": "string"},
                "endDate": {"type": "string"},
                "autoSchedule": {"type": "boolean"}
            }
        },
        "UpdateTaskRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "durationMinutes": {"type": "integer"},
                "autoSchedule": {"type": "boolean"}
            }
        },
        "UpdatePreferencesRequest": {
            "type": "object",
            "properties": {
                "sessionMinutes": {"type": "integer"},
                "breakMinutes": {"type": "integer"},
                "longBreakMinutes": {"type": "integer"},
                "longBreakEvery": {"type": "integer"},
                "dayStart": {"type": "string", "example": "08:00"},
                "dayEnd": {"type": "string", "example": "22:00"},
                "focusStart": {"type": "string"},
                "focusEnd": {"type": "string"},
                "avoidStart": {"type": "string"},
                "avoidEnd": {"type": "string"}
            }
        },
        "CreateConstraintRequest": {
            "type": "object",
            "required": ["title", "startTime", "endTime"],
            "properties": {
                "title": {"type": "string"},
                "startTime": {"type": "string", "example": "12:00"},
                "endTime": {"type": "string", "example": "13:00"},
                "recurrence": {"type": "string"},
                "daysOfWeek": {"type": "array", "items": {"type": "integer"}},
                "date": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
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
