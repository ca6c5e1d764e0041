package courses

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrAlreadyEnrolled = errors.New("already enrolled")
	ErrNotEnrolled     = errors.New("not enrolled")
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// selectCourses resolves the instructor and aggregates the student set in
// one pass; the cast to text keeps the uuid[] scannable with pq.StringArray.
const selectCourses = `
	SELECT c.id, c.title, c.category, c.price, c.instructor_id,
	       u.username, u.email, c.created_at,
	       COALESCE(array_agg(e.student_id::text) FILTER (WHERE e.student_id IS NOT NULL), '{}')
	FROM courses c
	JOIN users u ON u.id = c.instructor_id
	LEFT JOIN enrollments e ON e.course_id = c.id
`

const groupCourses = ` GROUP BY c.id, u.username, u.email ORDER BY c.created_at DESC`

func scanCourse(scan func(dest ...any) error) (*Course, error) {
	c := &Course{}
	var students pq.StringArray
	if err := scan(&c.ID, &c.Title, &c.Category, &c.Price, &c.InstructorID,
		&c.Instructor.Username, &c.Instructor.Email, &c.CreatedAt, &students); err != nil {
		return nil, err
	}
	c.Students = make([]uuid.UUID, 0, len(students))
	for _, s := range students {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		c.Students = append(c.Students, id)
	}
	return c, nil
}

func (s *Store) list(ctx context.Context, where string, args ...any) ([]Course, error) {
	rows, err := s.db.QueryContext(ctx, selectCourses+where+groupCourses, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Course{}
	for rows.Next() {
		c, err := scanCourse(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (s *Store) List(ctx context.Context) ([]Course, error) {
	return s.list(ctx, "")
}

func (s *Store) ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]Course, error) {
	return s.list(ctx, " WHERE c.instructor_id = $1", instructorID)
}

func (s *Store) ListEnrolled(ctx context.Context, studentID uuid.UUID) ([]Course, error) {
	return s.list(ctx, ` WHERE EXISTS (
		SELECT 1 FROM enrollments se WHERE se.course_id = c.id AND se.student_id = $1
	)`, studentID)
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	row := s.db.QueryRowContext(ctx, selectCourses+" WHERE c.id = $1"+groupCourses, id)
	c, err := scanCourse(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *Store) Create(ctx context.Context, c *Course) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	// Price comes back from the row so the response always reflects what
	// the column actually stored.
	const q = `
		INSERT INTO courses (id, title, category, price, instructor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING price, created_at
	`
	row := s.db.QueryRowContext(ctx, q, c.ID, c.Title, c.Category, c.Price, c.InstructorID, time.Now().UTC())
	if err := row.Scan(&c.Price, &c.CreatedAt); err != nil {
		return err
	}
	if c.Students == nil {
		c.Students = []uuid.UUID{}
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM courses`)
}

func (s *Store) CountByInstructor(ctx context.Context, instructorID uuid.UUID) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM courses WHERE instructor_id = $1`, instructorID)
}

func (s *Store) CountEnrolled(ctx context.Context, studentID uuid.UUID) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM enrollments WHERE student_id = $1`, studentID)
}

// CountTeachingStudents totals enrollments across the instructor's courses.
func (s *Store) CountTeachingStudents(ctx context.Context, instructorID uuid.UUID) (int, error) {
	return s.count(ctx, `
		SELECT COUNT(*) FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE c.instructor_id = $1
	`, instructorID)
}

func (s *Store) count(ctx context.Context, q string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// TotalEarnings sums price over every enrollment of the instructor's
// courses, i.e. Σ price × enrolled-count.
func (s *Store) TotalEarnings(ctx context.Context, instructorID uuid.UUID) (float64, error) {
	const q = `
		SELECT COALESCE(SUM(c.price), 0)
		FROM courses c
		JOIN enrollments e ON e.course_id = c.id
		WHERE c.instructor_id = $1
	`
	var total float64
	if err := s.db.QueryRowContext(ctx, q, instructorID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Enroll adds the student to the course's set. The composite primary key is
// the authoritative duplicate defense; a no-op insert reports the conflict.
func (s *Store) Enroll(ctx context.Context, courseID, studentID uuid.UUID) error {
	const q = `
		INSERT INTO enrollments (course_id, student_id, enrolled_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (course_id, student_id) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, q, courseID, studentID, time.Now().UTC())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAlreadyEnrolled
	}
	return nil
}

func (s *Store) Unenroll(ctx context.Context, courseID, studentID uuid.UUID) error {
	const q = `DELETE FROM enrollments WHERE course_id = $1 AND student_id = $2`
	res, err := s.db.ExecContext(ctx, q, courseID, studentID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotEnrolled
	}
	return nil
}
