package courses

import (
	"time"

	"github.com/google/uuid"
)

// Categories is the closed set a course may belong to.
var Categories = []string{
	"Web Development",
	"Mobile Development",
	"Data Science",
	"AI",
	"Game Development",
	"Cloud Computing",
	"Cybersecurity",
	"DevOps",
	"Blockchain",
	"UI/UX Design",
	"Digital Marketing",
	"Other",
}

// InstructorView is the public slice of the owning instructor, resolved by
// an explicit join in the store.
type InstructorView struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Course struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	Category     string         `json:"category"`
	Price        float64        `json:"price"`
	InstructorID uuid.UUID      `json:"-"`
	Instructor   InstructorView `json:"instructor"`
	Students     []uuid.UUID    `json:"students"`
	CreatedAt    time.Time      `json:"created_at"`
}
