package models

// Data Transfer Objects

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

type AddSubjectRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Code       string `json:"code" validate:"max=64"`
	Instructor string `json:"instructor" validate:"max=255"`
	Units      int    `json:"units" validate:"min=1,max=10"`
	Difficulty string `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
}

// EditSubjectRequest carries the midterm 1, midterm 2 and final scores in
// that order. Units and maximum scores are not editable.
type EditSubjectRequest struct {
	Name       string     `json:"name" validate:"required,max=255"`
	Code       string     `json:"code" validate:"max=64"`
	Instructor string     `json:"instructor" validate:"max=255"`
	Scores     [3]float64 `json:"scores" validate:"dive,gte=0"`
	Difficulty string     `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
}

type SaveSessionRequest struct {
	Subject string `json:"subject" validate:"max=255"`
}

type PostUpdateRequest struct {
	Subject string `json:"subject" validate:"required,max=255"`
	Text    string `json:"text" validate:"required,max=4000"`
}

type CreditsResponse struct {
	Owner        string `json:"owner"`
	TotalCredits int    `json:"total_credits"`
}

type BackupResult struct {
	Objects []string `json:"objects"`
}
