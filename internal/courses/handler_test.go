package courses

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursehub/internal/auth"
)

type fakeStore struct {
	courses map[uuid.UUID]*Course
}

func newFakeStore() *fakeStore {
	return &fakeStore{courses: map[uuid.UUID]*Course{}}
}

func (f *fakeStore) List(ctx context.Context) ([]Course, error) {
	out := []Course{}
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) ListByInstructor(ctx context.Context, instructorID uuid.UUID) ([]Course, error) {
	out := []Course{}
	for _, c := range f.courses {
		if c.InstructorID == instructorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListEnrolled(ctx context.Context, studentID uuid.UUID) ([]Course, error) {
	out := []Course{}
	for _, c := range f.courses {
		for _, s := range c.Students {
			if s == studentID {
				out = append(out, *c)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

func (f *fakeStore) Create(ctx context.Context, c *Course) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Students == nil {
		c.Students = []uuid.UUID{}
	}
	f.courses[c.ID] = c
	return nil
}

func (f *fakeStore) Count(ctx context.Context) (int, error) {
	return len(f.courses), nil
}

func (f *fakeStore) CountByInstructor(ctx context.Context, instructorID uuid.UUID) (int, error) {
	list, _ := f.ListByInstructor(ctx, instructorID)
	return len(list), nil
}

func (f *fakeStore) CountEnrolled(ctx context.Context, studentID uuid.UUID) (int, error) {
	list, _ := f.ListEnrolled(ctx, studentID)
	return len(list), nil
}

func (f *fakeStore) CountTeachingStudents(ctx context.Context, instructorID uuid.UUID) (int, error) {
	n := 0
	for _, c := range f.courses {
		if c.InstructorID == instructorID {
			n += len(c.Students)
		}
	}
	return n, nil
}

func (f *fakeStore) TotalEarnings(ctx context.Context, instructorID uuid.UUID) (float64, error) {
	total := 0.0
	for _, c := range f.courses {
		if c.InstructorID == instructorID {
			total += c.Price * float64(len(c.Students))
		}
	}
	return total, nil
}

func (f *fakeStore) Enroll(ctx context.Context, courseID, studentID uuid.UUID) error {
	c, ok := f.courses[courseID]
	if !ok {
		return ErrCourseNotFound
	}
	for _, s := range c.Students {
		if s == studentID {
			return ErrAlreadyEnrolled
		}
	}
	c.Students = append(c.Students, studentID)
	return nil
}

func (f *fakeStore) Unenroll(ctx context.Context, courseID, studentID uuid.UUID) error {
	c, ok := f.courses[courseID]
	if !ok {
		return ErrCourseNotFound
	}
	for i, s := range c.Students {
		if s == studentID {
			c.Students = append(c.Students[:i], c.Students[i+1:]...)
			return nil
		}
	}
	return ErrNotEnrolled
}

func newTestHandler(store CourseStore) *Handler {
	return &Handler{
		Store:  store,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func testStudent() *auth.User {
	return &auth.User{ID: uuid.New(), Username: "jane", Email: "jane@x.com", Role: auth.RoleStudent}
}

func testInstructor() *auth.User {
	return &auth.User{ID: uuid.New(), Username: "dan", Email: "dan@x.com", Role: auth.RoleInstructor}
}

func asUser(req *http.Request, u *auth.User) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), u))
}

// pathRequest routes the request through a mux so PathValue is populated.
func doRouted(pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestCreateCourse(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)
	instructor := testInstructor()

	body := `{"title":"Intro to Go Backends","category":"Web Development","price":99}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/courses", strings.NewReader(body)), instructor)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "Course created successfully", resp["message"])
	course := resp["newCourse"].(map[string]any)
	assert.Equal(t, "Intro to Go Backends", course["title"])
	assert.Equal(t, "dan", course["instructor"].(map[string]any)["username"])
	assert.Len(t, store.courses, 1)
}

func TestCreateCourseValidation(t *testing.T) {
	h := newTestHandler(newFakeStore())
	instructor := testInstructor()

	cases := []struct {
		name string
		body string
	}{
		{"short title", `{"title":"short","category":"Web Development","price":99}`},
		{"bad category", `{"title":"A valid title here","category":"Cooking","price":99}`},
		{"price too high", `{"title":"A valid title here","category":"AI","price":10000}`},
		{"price too low", `{"title":"A valid title here","category":"AI","price":0}`},
		{"empty body", ``},
	}
	for _, tc := range cases {
		req := asUser(httptest.NewRequest(http.MethodPost, "/api/courses", strings.NewReader(tc.body)), instructor)
		rec := httptest.NewRecorder()
		h.Create(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, tc.name)
	}
}

func TestEnrollLifecycle(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)
	instructor := testInstructor()
	student := testStudent()

	course := &Course{Title: "A valid title here", Category: "AI", Price: 50, InstructorID: instructor.ID}
	require.NoError(t, store.Create(context.Background(), course))

	enroll := func() *httptest.ResponseRecorder {
		req := asUser(httptest.NewRequest(http.MethodPost, "/api/courses/enroll/"+course.ID.String(), nil), student)
		return doRouted("POST /api/courses/enroll/{id}", h.Enroll, req)
	}

	rec := enroll()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enrolled Successfully")
	assert.Len(t, store.courses[course.ID].Students, 1)

	// Enrolling twice keeps exactly one membership and fails the second call.
	rec = enroll()
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "You are already enrolled in this course")
	assert.Len(t, store.courses[course.ID].Students, 1)
}

func TestEnrollUnknownCourse(t *testing.T) {
	h := newTestHandler(newFakeStore())
	student := testStudent()

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/courses/enroll/"+uuid.NewString(), nil), student)
	rec := doRouted("POST /api/courses/enroll/{id}", h.Enroll, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Course not found")
}

func TestUnenroll(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)
	student := testStudent()

	course := &Course{Title: "A valid title here", Category: "AI", Price: 50, InstructorID: uuid.New()}
	require.NoError(t, store.Create(context.Background(), course))

	unenroll := func() *httptest.ResponseRecorder {
		req := asUser(httptest.NewRequest(http.MethodPost, "/api/courses/unenroll/"+course.ID.String(), nil), student)
		return doRouted("POST /api/courses/unenroll/{id}", h.Unenroll, req)
	}

	// Not a member yet: the set is unchanged and the call fails.
	rec := unenroll()
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "You are not enrolled in this course")

	require.NoError(t, store.Enroll(context.Background(), course.ID, student.ID))
	rec = unenroll()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unenrolled Successfully")
	assert.Empty(t, store.courses[course.ID].Students)
}

func TestGetCourse(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)

	course := &Course{
		Title: "A valid title here", Category: "AI", Price: 50,
		InstructorID: uuid.New(),
		Instructor:   InstructorView{Username: "dan", Email: "dan@x.com"},
	}
	require.NoError(t, store.Create(context.Background(), course))

	req := httptest.NewRequest(http.MethodGet, "/api/courses/"+course.ID.String(), nil)
	rec := doRouted("GET /api/courses/{id}", h.Get, req)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "Course fetched successfully", resp["message"])

	req = httptest.NewRequest(http.MethodGet, "/api/courses/"+uuid.NewString(), nil)
	rec = doRouted("GET /api/courses/{id}", h.Get, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnrolledViews(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)
	student := testStudent()

	// No enrollments yet.
	req := asUser(httptest.NewRequest(http.MethodGet, "/api/courses/enrolled", nil), student)
	rec := httptest.NewRecorder()
	h.Enrolled(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No enrolled courses found")

	course := &Course{Title: "A valid title here", Category: "AI", Price: 50, InstructorID: uuid.New()}
	require.NoError(t, store.Create(context.Background(), course))
	require.NoError(t, store.Enroll(context.Background(), course.ID, student.ID))

	rec = httptest.NewRecorder()
	h.Enrolled(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/courses/enrolled", nil), student))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Len(t, resp["courses"], 1)

	rec = httptest.NewRecorder()
	h.EnrolledCount(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/courses/enrolled-number", nil), student))
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode(t, rec)
	assert.Equal(t, float64(1), resp["coursesNumber"])
}

func TestInstructorViews(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)
	instructor := testInstructor()
	s1, s2 := uuid.New(), uuid.New()

	c1 := &Course{Title: "A valid title here", Category: "AI", Price: 100, InstructorID: instructor.ID, Students: []uuid.UUID{s1, s2}}
	c2 := &Course{Title: "Another valid title", Category: "DevOps", Price: 50, InstructorID: instructor.ID, Students: []uuid.UUID{s1}}
	other := &Course{Title: "Somebody else's course", Category: "Other", Price: 999, InstructorID: uuid.New(), Students: []uuid.UUID{s2}}
	for _, c := range []*Course{c1, c2, other} {
		require.NoError(t, store.Create(context.Background(), c))
	}

	get := func(path string, fn http.HandlerFunc) map[string]any {
		rec := httptest.NewRecorder()
		fn(rec, asUser(httptest.NewRequest(http.MethodGet, path, nil), instructor))
		require.Equal(t, http.StatusOK, rec.Code, path)
		return decode(t, rec)
	}

	resp := get("/api/courses/teaching-courses", h.Teaching)
	assert.Len(t, resp["courses"], 2)

	resp = get("/api/courses/teaching-number", h.TeachingCount)
	assert.Equal(t, float64(2), resp["coursesNumber"])

	resp = get("/api/courses/teaching-students-number", h.TeachingStudents)
	assert.Equal(t, float64(3), resp["studentsNumber"])

	// 100×2 + 50×1; the other instructor's course does not count.
	resp = get("/api/courses/total-earnings", h.TotalEarnings)
	assert.Equal(t, float64(250), resp["totalEarnings"])
}

func TestListAndCount(t *testing.T) {
	store := newFakeStore()
	h := newTestHandler(store)
	require.NoError(t, store.Create(context.Background(), &Course{
		Title: "A valid title here", Category: "AI", Price: 50, InstructorID: uuid.New(),
	}))

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/courses", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "Courses fetched successfully", resp["message"])
	assert.Len(t, resp["courses"], 1)

	rec = httptest.NewRecorder()
	h.Count(rec, httptest.NewRequest(http.MethodGet, "/api/courses/number", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode(t, rec)
	assert.Equal(t, float64(1), resp["coursesNumber"])
}
