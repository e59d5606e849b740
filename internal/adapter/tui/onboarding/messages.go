package onboarding

import "bloop/internal/domain"

// ConnectResultMsg carries the result of an async remote account link.
type ConnectResultMsg struct {
	Account string
	Token   string
	Err     error
}

// ReposResultMsg carries the remote repositories fetched for selection.
type ReposResultMsg struct {
	Repos []string
	Err   error
}

// ScanResultMsg carries the result of an async local folder scan.
type ScanResultMsg struct {
	Folder string
	Repos  []domain.LocalRepo
	Err    error
}
