package models

import (
	"math"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (d Difficulty) String() string {
	return string(d)
}

// Indicator is the traffic-light colour shown next to a subject. Anything
// that is not Easy or Medium renders red, including an empty value.
func (d Difficulty) Indicator() string {
	switch d {
	case DifficultyEasy:
		return "green"
	case DifficultyMedium:
		return "yellow"
	default:
		return "red"
	}
}

func IsValidDifficulty(d string) bool {
	switch Difficulty(d) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Default maxima for the three exam components of a new subject.
const (
	DefaultMidterm1Max = 30.0
	DefaultMidterm2Max = 30.0
	DefaultFinalMax    = 40.0
)

type ExamComponent struct {
	Score float64 `json:"score"`
	Max   float64 `json:"max"`
}

type Subject struct {
	ID         string        `json:"id" db:"id"`
	Owner      string        `json:"owner" db:"owner"`
	Name       string        `json:"name" db:"name"`
	Code       string        `json:"code" db:"code"`
	Instructor string        `json:"instructor" db:"instructor"`
	Units      int           `json:"units" db:"units"`
	Midterm1   ExamComponent `json:"midterm1"`
	Midterm2   ExamComponent `json:"midterm2"`
	Final      ExamComponent `json:"final"`
	Difficulty Difficulty    `json:"difficulty" db:"difficulty"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

func (s *Subject) TotalScore() float64 {
	return s.Midterm1.Score + s.Midterm2.Score + s.Final.Score
}

func (s *Subject) TotalMax() float64 {
	return s.Midterm1.Max + s.Midterm2.Max + s.Final.Max
}

// Percentage of the achievable marks earned so far, rounded to one decimal.
func (s *Subject) Percentage() float64 {
	max := s.TotalMax()
	if max <= 0 {
		return 0
	}
	return math.Round(s.TotalScore()/max*1000) / 10
}

type SubjectView struct {
	Subject
	Indicator string `json:"indicator"`
}

func NewSubjectView(s Subject) SubjectView {
	return SubjectView{Subject: s, Indicator: s.Difficulty.Indicator()}
}

// GradeRow is one line of the grade archive table.
type GradeRow struct {
	SubjectID  string     `json:"subject_id"`
	Subject    string     `json:"subject"`
	Midterm1   float64    `json:"midterm1"`
	Midterm2   float64    `json:"midterm2"`
	Final      float64    `json:"final"`
	Total      float64    `json:"total"`
	TotalMax   float64    `json:"total_max"`
	Percentage float64    `json:"percentage"`
	Level      Difficulty `json:"level"`
}

func NewGradeRow(s Subject) GradeRow {
	return GradeRow{
		SubjectID:  s.ID,
		Subject:    s.Name,
		Midterm1:   s.Midterm1.Score,
		Midterm2:   s.Midterm2.Score,
		Final:      s.Final.Score,
		Total:      s.TotalScore(),
		TotalMax:   s.TotalMax(),
		Percentage: s.Percentage(),
		Level:      s.Difficulty,
	}
}
