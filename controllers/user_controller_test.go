package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/threadline/threadline-api/config"
	"github.com/threadline/threadline-api/models"
)

// mockUserInfoServer returns an httptest server that answers /userinfo the way
// Auth0 does, keyed by the bearer token it receives
func mockUserInfoServer(t *testing.T, users map[string]map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/userinfo" {
			http.NotFound(w, r)
			return
		}
		token := r.Header.Get("Authorization")
		info, ok := users[token]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(info); err != nil {
			t.Errorf("Failed to encode userinfo response: %v", err)
		}
	}))
}

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	server := mockUserInfoServer(t, map[string]map[string]string{
		"Bearer token-new": {
			"sub":   "auth0|new-user",
			"email": "new@example.com",
			"name":  "New User",
		},
		"Bearer token-tailor": {
			"sub":   "auth0|new-tailor",
			"email": "tailor@example.com",
			"name":  "New Tailor",
		},
		"Bearer token-no-email": {
			"sub":  "auth0|no-email",
			"name": "No Email",
		},
	})
	defer server.Close()

	config.SetConfig(&config.Config{
		DatabaseURL: "sqlite://memory",
		Auth0Domain: server.URL,
	})

	tests := []struct {
		name           string
		auth0ID        string
		role           string
		accessToken    string
		expectedStatus int
		expectedError  string
		expectedRole   string
	}{
		{
			name:           "Create user with default customer role",
			auth0ID:        "auth0|new-user",
			role:           "",
			accessToken:    "token-new",
			expectedStatus: http.StatusCreated,
			expectedRole:   models.RoleCustomer,
		},
		{
			name:           "Role claim carries through to the profile",
			auth0ID:        "auth0|new-tailor",
			role:           models.RoleTailor,
			accessToken:    "token-tailor",
			expectedStatus: http.StatusCreated,
			expectedRole:   models.RoleTailor,
		},
		{
			name:           "Fail on duplicate Auth0 ID",
			auth0ID:        "auth0|new-user",
			role:           "",
			accessToken:    "token-new",
			expectedStatus: http.StatusConflict,
			expectedError:  "USER_EXISTS",
		},
		{
			name:           "Fail when Auth0 omits the email",
			auth0ID:        "auth0|no-email",
			role:           "",
			accessToken:    "token-no-email",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "MISSING_EMAIL",
		},
		{
			name:           "Fail when Auth0 rejects the token",
			auth0ID:        "auth0|unknown",
			role:           "",
			accessToken:    "token-bad",
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "AUTH0_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/users",
				mockAuthMiddleware(tt.auth0ID, tt.role, tt.accessToken),
				CreateUser,
			)

			req, _ := http.NewRequest(http.MethodPost, "/users", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			if tt.expectedError != "" {
				assert.Equal(t, "error", response["status"])
				assert.Equal(t, tt.expectedError, response["code"])
				return
			}

			data := response["data"].(map[string]interface{})
			assert.Equal(t, tt.auth0ID, data["auth0_id"])
			assert.Equal(t, tt.expectedRole, data["role"])

			var persisted models.User
			assert.NoError(t, db.Where("auth0_id = ?", tt.auth0ID).First(&persisted).Error)
			assert.Equal(t, tt.expectedRole, persisted.Role)
		})
	}
}

func TestGetMyProfile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := createTestUser(t, db, "auth0|me", "Me", "me@example.com", models.RoleCustomer)

	t.Run("Returns the caller's profile", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/users/me", mockAuthMiddleware(user.Auth0ID, models.RoleCustomer, "mock-token"), GetMyProfile)

		req, _ := http.NewRequest(http.MethodGet, "/users/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		assert.Equal(t, user.Email, data["email"])
	})

	t.Run("Fails without a profile", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/users/me", mockAuthMiddleware("auth0|ghost", models.RoleCustomer, "mock-token"), GetMyProfile)

		req, _ := http.NewRequest(http.MethodGet, "/users/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		var response map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "USER_NOT_FOUND", response["code"])
	})
}
