// Package paths собирает пути REST API бэкенда Veritas.
package paths

import (
	"fmt"
	"net/url"
)

const (
	Login          = "/login"
	Register       = "/register"
	Groups         = "/groups"
	Submissions    = "/submissions"
	Tests          = "/tests"
	TeacherStats   = "/teacher/analytics"
	ChangePassword = "/student/change-password"
	DeleteAccount  = "/student/delete-account"
	ExportResults  = "/student/export-results"
)

func TeacherTests(teacherID string) string {
	return "/tests/" + url.PathEscape(teacherID)
}

func StudentTests(groupID string) string {
	return "/student/tests/" + url.PathEscape(groupID)
}

func TestQuestions(testID string) string {
	return "/student/test/" + url.PathEscape(testID)
}

func SubmissionCheck(testID string) string {
	return "/submissions/check/" + url.PathEscape(testID)
}

func TestResults(testID string) string {
	return fmt.Sprintf("/tests/%s/results", url.PathEscape(testID))
}

func StudentReview(studentID, testID string) string {
	return fmt.Sprintf("/student/%s/test/%s", url.PathEscape(studentID), url.PathEscape(testID))
}

func StudentResults(studentID string) string {
	return "/student/results/" + url.PathEscape(studentID)
}

func StudentAnalytics(studentID string) string {
	return "/student/analytics/" + url.PathEscape(studentID)
}
