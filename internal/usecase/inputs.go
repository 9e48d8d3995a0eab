package usecase

import "time"

type AddModuleInput struct {
	Semester int    `validate:"min=1"`
	Title    string `validate:"required,max=120"`
	ECTS     int    `validate:"oneof=5 10"`
}

// ModuleRef addresses a module top-down: semester number, then title.
type ModuleRef struct {
	Semester int    `validate:"min=1"`
	Title    string `validate:"required"`
}

type RecordExamInput struct {
	ModuleRef
	// Grade is range-checked by the module so that a passed module reports
	// ErrModuleAlreadyPassed regardless of the grade.
	Grade float64
}

type LogLearningTimeInput struct {
	ModuleRef
	// Date defaults to today.
	Date  time.Time
	Hours float64 `validate:"gte=0"`
}

type RenameModuleInput struct {
	ModuleRef
	NewTitle string `validate:"required,max=120"`
}

type ChangeECTSInput struct {
	ModuleRef
	ECTS int `validate:"oneof=5 10"`
}

type MoveModuleInput struct {
	ModuleRef
	To int `validate:"min=1"`
}
