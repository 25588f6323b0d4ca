package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/fortexlabs/early-warning-api/api/handlers"
	"github.com/fortexlabs/early-warning-api/databases"
	"github.com/fortexlabs/early-warning-api/models"
)

var testSecret = []byte("test-secret")

func userStoreWith(t *testing.T, users ...models.User) databases.UserDatabase {
	t.Helper()
	return databases.NewMemoryUserDatabase(users)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestAuth_SignupHandler(t *testing.T) {
	a := handlers.Auth{DB: userStoreWith(t), Secret: testSecret}

	body := []byte(`{"email": "New.Student@Example.com", "password": "hunter2", "name": "New Student"}`)
	rr := httptest.NewRecorder()

	http.HandlerFunc(a.SignupHandler).ServeHTTP(rr, httptest.NewRequest("POST", "/auth/signup", bytes.NewReader(body)))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp models.MessageResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Signup successful", resp.Message)
}

func TestAuth_SignupHandlerLowercasesEmail(t *testing.T) {
	udb := userStoreWith(t)
	a := handlers.Auth{DB: udb, Secret: testSecret}

	body := []byte(`{"email": "MiXeD@Case.Com", "password": "pw"}`)
	rr := httptest.NewRecorder()
	http.HandlerFunc(a.SignupHandler).ServeHTTP(rr, httptest.NewRequest("POST", "/auth/signup", bytes.NewReader(body)))
	assert.Equal(t, http.StatusOK, rr.Code)

	stored, err := udb.FindByEmail(httptest.NewRequest("GET", "/", nil).Context(), "mixed@case.com")
	assert.NoError(t, err)
	assert.Equal(t, models.RoleStudent, stored.Role)
}

func TestAuth_SignupHandlerDuplicateEmail(t *testing.T) {
	udb := userStoreWith(t, models.User{ID: 1, Email: "taken@demo.com", Password: "x", Role: models.RoleStudent})
	a := handlers.Auth{DB: udb, Secret: testSecret}

	body := []byte(`{"email": "taken@demo.com", "password": "pw"}`)
	rr := httptest.NewRecorder()

	http.HandlerFunc(a.SignupHandler).ServeHTTP(rr, httptest.NewRequest("POST", "/auth/signup", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuth_SignupHandlerRejectsMissingFields(t *testing.T) {
	a := handlers.Auth{DB: userStoreWith(t), Secret: testSecret}

	for _, body := range []string{`{"email": "a@b.com"}`, `{"password": "pw"}`, `{}`} {
		rr := httptest.NewRecorder()
		http.HandlerFunc(a.SignupHandler).ServeHTTP(rr, httptest.NewRequest("POST", "/auth/signup", bytes.NewReader([]byte(body))))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	}
}

func TestAuth_SignupHandlerRejectsUnknownRole(t *testing.T) {
	a := handlers.Auth{DB: userStoreWith(t), Secret: testSecret}

	body := []byte(`{"email": "a@b.com", "password": "pw", "role": "warden"}`)
	rr := httptest.NewRecorder()

	http.HandlerFunc(a.SignupHandler).ServeHTTP(rr, httptest.NewRequest("POST", "/auth/signup", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAuth_LoginHandler(t *testing.T) {
	udb := userStoreWith(t, models.User{
		ID:       1,
		Email:    "student@demo.com",
		Password: hashPassword(t, "password"),
		Role:     models.RoleStudent,
		Name:     "Demo Student",
	})
	a := handlers.Auth{DB: udb, Secret: testSecret}

	body := []byte(`{"email": "Student@Demo.com", "password": "password"}`)
	rr := httptest.NewRecorder()

	http.HandlerFunc(a.LoginHandler).ServeHTTP(rr, httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body)))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Token string             `json:"token"`
		User  models.UserDetails `json:"user"`
	}
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 1, resp.User.ID)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
}

func TestAuth_LoginHandlerBadPassword(t *testing.T) {
	udb := userStoreWith(t, models.User{
		ID:       1,
		Email:    "student@demo.com",
		Password: hashPassword(t, "password"),
		Role:     models.RoleStudent,
	})
	a := handlers.Auth{DB: udb, Secret: testSecret}

	body := []byte(`{"email": "student@demo.com", "password": "wrong"}`)
	rr := httptest.NewRecorder()

	http.HandlerFunc(a.LoginHandler).ServeHTTP(rr, httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_LoginHandlerUnknownEmail(t *testing.T) {
	a := handlers.Auth{DB: userStoreWith(t), Secret: testSecret}

	body := []byte(`{"email": "ghost@demo.com", "password": "pw"}`)
	rr := httptest.NewRecorder()

	http.HandlerFunc(a.LoginHandler).ServeHTTP(rr, httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
