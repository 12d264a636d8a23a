package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Aula API",
        "description": "Classroom management backend: rosters, QR attendance, weighted grading and class planning",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Shared password login"},
        {"name": "Subjects", "description": "Subjects, schedules and grading periods"},
        {"name": "Students", "description": "Roster management"},
        {"name": "Criteria", "description": "Weighted evaluation criteria"},
        {"name": "Assignments", "description": "Gradeable work items"},
        {"name": "Grades", "description": "Score capture"},
        {"name": "Attendance", "description": "Scanning sessions and roll call"},
        {"name": "Participation", "description": "Participation points"},
        {"name": "Planner", "description": "Class topic planner"},
        {"name": "Reports", "description": "Computed calendars and grade reports"},
        {"name": "Calendar", "description": "School event calendar"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange the access password for a session token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid password"}
                }
            }
        },
        "/calendar/events": {
            "get": {
                "tags": ["Calendar"],
                "summary": "List school calendar events in a date range",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List subjects",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Subjects"],
                "summary": "Create subject",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSubjectRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Get subject",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Subjects"],
                "summary": "Delete subject",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/subjects/{subjectId}/schedule": {
            "put": {
                "tags": ["Subjects"],
                "summary": "Replace weekly schedule",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/grading-periods": {
            "get": {
                "tags": ["Reports"],
                "summary": "List resolved grading periods",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Subjects"],
                "summary": "Replace grading period start dates",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdatePeriodDatesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List roster",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Students"],
                "summary": "Add one student",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateStudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/students/import": {
            "post": {
                "tags": ["Students"],
                "summary": "Add students from a newline separated list",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ImportStudentsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/students/{id}": {
            "delete": {
                "tags": ["Students"],
                "summary": "Remove student",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/subjects/{subjectId}/students/{id}/report": {
            "get": {
                "tags": ["Reports"],
                "summary": "Compute one student's grade report",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/criteria": {
            "get": {
                "tags": ["Criteria"],
                "summary": "List criteria",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Criteria"],
                "summary": "Create criterion",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateCriterionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error, including period percentages above 100"}
                }
            }
        },
        "/subjects/{subjectId}/criteria/{id}": {
            "put": {
                "tags": ["Criteria"],
                "summary": "Update criterion",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateCriterionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Criteria"],
                "summary": "Delete criterion",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/subjects/{subjectId}/assignments": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List assignments",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Create assignment",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateAssignmentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Criterion already has its single assignment"}
                }
            }
        },
        "/subjects/{subjectId}/grades": {
            "get": {
                "tags": ["Grades"],
                "summary": "List grades",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Grades"],
                "summary": "Record or replace one score",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordGradeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/grades/bulk": {
            "post": {
                "tags": ["Grades"],
                "summary": "Record several scores for one student",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkRecordGradesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/attendance/sessions": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List sessions",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Open a live scanning session",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/attendance/scan": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Check a scanned student into a session",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordScanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Student already checked in"}
                }
            }
        },
        "/subjects/{subjectId}/attendance/roll-call": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record attendance for a list of students on a date",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RollCallRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/participations": {
            "get": {
                "tags": ["Participation"],
                "summary": "List participation entries",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Participation"],
                "summary": "Award participation points",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AwardParticipationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/planner": {
            "delete": {
                "tags": ["Planner"],
                "summary": "Clear the subject's planner",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            },
            "get": {
                "tags": ["Planner"],
                "summary": "List planned classes",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Planner"],
                "summary": "Plan one class",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreatePlannedClassRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/planner/distribute": {
            "post": {
                "tags": ["Planner"],
                "summary": "Lay topics over upcoming instructional dates",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DistributeTopicsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/planner/generate": {
            "post": {
                "tags": ["Planner"],
                "summary": "Draft a syllabus with the generation service",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateSyllabusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/planner/{id}/organizer": {
            "post": {
                "tags": ["Planner"],
                "summary": "Draft a graphic organizer for a planned class",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/attendance/export/csv": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export the attendance register as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/subjects/{subjectId}/report/export/csv": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export the roster report as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/subjects/{subjectId}/report/export/pdf": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export the roster report as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF file"}
                }
            }
        },
        "/subjects/{subjectId}/students/{id}/report/export/pdf": {
            "get": {
                "tags": ["Reports"],
                "summary": "Export one student's report as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF file"}
                }
            }
        },
        "/subjects/{subjectId}/session-dates": {
            "get": {
                "tags": ["Reports"],
                "summary": "List scheduled session dates for the semester",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/subjects/{subjectId}/report": {
            "get": {
                "tags": ["Reports"],
                "summary": "Compute the grade report of the whole roster",
                "parameters": [
                    {"name": "subjectId", "in": "path", "required": true, "type": "string"},
                    {"name": "period", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"}
            },
            "required": ["password"]
        },
        "CreateSubjectRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "term": {"type": "string", "enum": ["semestre", "cuatrimestre"]},
                "schedule": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ScheduleEntry"}
                }
            },
            "required": ["name", "term"]
        },
        "ScheduleEntry": {
            "type": "object",
            "properties": {
                "day": {"type": "integer", "minimum": 1, "maximum": 7},
                "time": {"type": "string"},
                "duration_hours": {"type": "number"}
            }
        },
        "UpdateScheduleRequest": {
            "type": "object",
            "properties": {
                "schedule": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ScheduleEntry"}
                }
            },
            "required": ["schedule"]
        },
        "UpdatePeriodDatesRequest": {
            "type": "object",
            "properties": {
                "dates": {
                    "type": "object",
                    "additionalProperties": {"type": "string"}
                }
            },
            "required": ["dates"]
        },
        "CreateStudentRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"}
            },
            "required": ["name"]
        },
        "ImportStudentsRequest": {
            "type": "object",
            "properties": {
                "names": {"type": "string"}
            },
            "required": ["names"]
        },
        "CreateCriterionRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "percentage": {"type": "number"},
                "type": {"type": "string", "enum": ["default", "attendance", "participation"]},
                "assignment_limit": {"type": "string", "enum": ["single", "multiple"]},
                "max_points": {"type": "number"},
                "grading_period": {"type": "integer", "minimum": 1, "maximum": 4}
            },
            "required": ["name", "percentage", "type", "grading_period"]
        },
        "UpdateCriterionRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "percentage": {"type": "number"},
                "assignment_limit": {"type": "string", "enum": ["single", "multiple"]},
                "max_points": {"type": "number"}
            },
            "required": ["name", "percentage"]
        },
        "CreateAssignmentRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "criterion_id": {"type": "string"}
            },
            "required": ["name", "criterion_id"]
        },
        "RecordGradeRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "assignment_id": {"type": "string"},
                "score": {"type": "number", "minimum": 0, "maximum": 10}
            },
            "required": ["student_id", "assignment_id"]
        },
        "BulkRecordGradesRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "items": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "assignment_id": {"type": "string"},
                            "score": {"type": "number"}
                        }
                    }
                }
            },
            "required": ["student_id", "items"]
        },
        "RecordScanRequest": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "student_name": {"type": "string"}
            },
            "required": ["session_id", "student_name"]
        },
        "RollCallRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "student_ids": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            },
            "required": ["date", "student_ids"]
        },
        "AwardParticipationRequest": {
            "type": "object",
            "properties": {
                "student_id": {"type": "string"},
                "points": {"type": "number"},
                "date": {"type": "string"}
            },
            "required": ["student_id", "points"]
        },
        "CreatePlannedClassRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"}
            },
            "required": ["date", "title"]
        },
        "DistributeTopicsRequest": {
            "type": "object",
            "properties": {
                "start_date": {"type": "string"},
                "topics": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "title": {"type": "string"},
                            "description": {"type": "string"}
                        }
                    }
                }
            },
            "required": ["topics"]
        },
        "GenerateSyllabusRequest": {
            "type": "object",
            "properties": {
                "course_description": {"type": "string"},
                "topic_count": {"type": "integer"}
            },
            "required": ["course_description", "topic_count"]
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
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"}
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
