package controllers

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndNormalizeRole(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "viewer", false},
		{"viewer", "viewer", false},
		{" Planner ", "planner", false},
		{"ADMIN", "admin", false},
		{"root", "", true},
	}

	for _, tc := range cases {
		got, err := validateAndNormalizeRole(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	mock := useMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	r := gin.New()
	r.POST("/auth/signup", SignupUser)

	w := doJSON(r, http.MethodPost, "/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"secret","role":"planner"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already in use")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	useMockDB(t)

	r := gin.New()
	r.POST("/auth/signup", SignupUser)

	w := doJSON(r, http.MethodPost, "/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"secret","role":"root"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid role")
}
