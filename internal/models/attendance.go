package models

import "time"

// AttendanceSession is one roll-call event for a subject. CreatedAt defaults
// to now but may be backdated for manual sessions.
type AttendanceSession struct {
	ID        string    `db:"id" json:"id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AttendanceRecord marks a student present in a session. At most one record
// exists per (student, session); the unique constraint rejects repeat scans.
type AttendanceRecord struct {
	ID        int64     `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	SessionID string    `db:"session_id" json:"session_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AttendanceRecordRow extends a record with the student's name for display.
type AttendanceRecordRow struct {
	AttendanceRecord
	StudentName string `db:"student_name" json:"student_name"`
}
