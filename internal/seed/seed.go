// Package seed loads development fixtures from a yaml file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"log/slog"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"coursehub/internal/auth"
	"coursehub/internal/courses"
)

type seedFile struct {
	Users []struct {
		Username string    `yaml:"username"`
		Email    string    `yaml:"email"`
		Password string    `yaml:"password"`
		Role     auth.Role `yaml:"role"`
	} `yaml:"users"`
	Courses []struct {
		Title      string   `yaml:"title"`
		Category   string   `yaml:"category"`
		Price      float64  `yaml:"price"`
		Instructor string   `yaml:"instructor"`
		Students   []string `yaml:"students"`
	} `yaml:"courses"`
}

// Load creates the users and courses from the file, skipping users that
// already exist. Courses are only created for instructors seeded in this
// run, so re-running against a seeded database is a no-op.
func Load(ctx context.Context, path string, users *auth.Store, courseStore *courses.Store, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return err
	}

	created := map[string]uuid.UUID{}
	existing := map[string]uuid.UUID{}
	for _, u := range sf.Users {
		if u.Username == "" || u.Email == "" || u.Password == "" {
			continue
		}
		if cur, err := users.GetByEmail(ctx, u.Email); err == nil {
			existing[u.Email] = cur.ID
			continue
		} else if !errors.Is(err, auth.ErrUserNotFound) {
			return err
		}
		user, err := users.Create(ctx, u.Username, u.Email, u.Password, u.Role)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		created[u.Email] = user.ID
	}

	for _, c := range sf.Courses {
		instructorID, ok := created[c.Instructor]
		if !ok {
			if _, seen := existing[c.Instructor]; seen {
				continue
			}
			logger.Warn("seed course skipped, unknown instructor", "title", c.Title, "instructor", c.Instructor)
			continue
		}
		course := &courses.Course{
			Title:        c.Title,
			Category:     c.Category,
			Price:        c.Price,
			InstructorID: instructorID,
		}
		if err := courseStore.Create(ctx, course); err != nil {
			return fmt.Errorf("seed course %s: %w", c.Title, err)
		}
		for _, email := range c.Students {
			studentID, ok := created[email]
			if !ok {
				studentID, ok = existing[email]
			}
			if !ok {
				logger.Warn("seed enrollment skipped, unknown student", "title", c.Title, "student", email)
				continue
			}
			if err := courseStore.Enroll(ctx, course.ID, studentID); err != nil && !errors.Is(err, courses.ErrAlreadyEnrolled) {
				return fmt.Errorf("seed enrollment %s/%s: %w", c.Title, email, err)
			}
		}
	}

	logger.Info("seed complete", "users", len(created), "courses", len(sf.Courses))
	return nil
}
