package validate

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
}

func TestDecodeNoBody(t *testing.T) {
	var req RegisterRequest
	err := Decode(request(""), &req)
	require.Error(t, err)
	assert.Equal(t, "No body provided", err.Error())
}

func TestDecodeMalformedJSON(t *testing.T) {
	var req RegisterRequest
	err := Decode(request("{not json"), &req)
	require.Error(t, err)
	assert.Equal(t, "Invalid request body", err.Error())
}

func TestDecodeOversizeBody(t *testing.T) {
	padding := strings.Repeat("a", maxBodyBytes)
	body := `{"username":"` + padding + `","email":"a@x.com","password":"secret1","role":"student"}`

	var req RegisterRequest
	err := Decode(request(body), &req)
	require.Error(t, err)
	assert.Equal(t, "Invalid request body", err.Error())
}

func TestDecodeValid(t *testing.T) {
	var req RegisterRequest
	err := Decode(request(`{"username":"alice","email":"a@x.com","password":"secret1","role":"student"}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "student", req.Role)
}

func TestRegisterRequestViolations(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing username", `{"email":"a@x.com","password":"secret1","role":"student"}`, "username is required"},
		{"short username", `{"username":"ab","email":"a@x.com","password":"secret1","role":"student"}`, "username must be at least 3 characters"},
		{"bad email", `{"username":"alice","email":"nope","password":"secret1","role":"student"}`, "email must be a valid email"},
		{"short password", `{"username":"alice","email":"a@x.com","password":"abc","role":"student"}`, "password must be at least 6 characters"},
		{"bad role", `{"username":"alice","email":"a@x.com","password":"secret1","role":"admin"}`, "role must be one of: student instructor"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req RegisterRequest
			err := Decode(request(tc.body), &req)
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestCourseRequestViolations(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"short title", `{"title":"short","category":"AI","price":10}`},
		{"unknown category", `{"title":"A valid course title","category":"Cooking","price":10}`},
		{"price below minimum", `{"title":"A valid course title","category":"AI","price":0}`},
		{"price above maximum", `{"title":"A valid course title","category":"AI","price":10000}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req CourseRequest
			assert.Error(t, Decode(request(tc.body), &req))
		})
	}
}

func TestCourseRequestCategoryWithSpaces(t *testing.T) {
	var req CourseRequest
	err := Decode(request(`{"title":"A valid course title","category":"Web Development","price":199}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "Web Development", req.Category)
}

func TestPasswordUpdateMismatch(t *testing.T) {
	var req PasswordUpdateRequest
	err := Decode(request(`{"currentPassword":"secret1","newPassword":"newpass1","confirmNewPassword":"other12"}`), &req)
	require.Error(t, err)
	assert.Equal(t, "Passwords do not match", err.Error())
}
