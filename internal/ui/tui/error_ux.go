package tui

import (
	"errors"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

// userMessage turns an error into one short line for the status bar.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, domain.ErrInvalidGrade):
		return "Grade must be between 1.0 and 5.0"
	case errors.Is(err, domain.ErrInvalidECTS):
		return "ECTS must be 5 or 10"
	case errors.Is(err, domain.ErrInvalidDuration):
		return "Hours must not be negative"
	case errors.Is(err, domain.ErrInvalidSemester):
		return "Semester out of range"
	case errors.Is(err, domain.ErrModuleAlreadyPassed):
		return "Module already passed"
	case errors.Is(err, domain.ErrAttemptsExhausted):
		return "No exam attempts left"
	case errors.Is(err, domain.ErrDuplicateModule):
		return "Module already exists in this semester"
	case errors.Is(err, domain.ErrUnknownStatus):
		return "Stored data has an unknown module status"
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {
		case domain.KindNotFound:
			return "Not found"
		case domain.KindValidation:
			return "Invalid input"
		case domain.KindStorage:
			return "Storage unavailable, change kept in memory only"
		case domain.KindMalformed:
			return "Stored data is malformed"
		}
	}

	return "Unexpected error (see logs)"
}

// recoveredMessage explains why the dashboard started from an empty program.
func recoveredMessage(err error) string {
	msg := userMessage(err)
	if domain.IsKind(err, domain.KindStorage) || errors.Is(err, domain.ErrStorageUnavailable) {
		msg = "Could not load stored data"
	}
	return msg + ", started with an empty program"
}
