package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrBranchExists  = errors.New("branch already exists")
	ErrCorruptBranch = errors.New("corrupt branch")
)
