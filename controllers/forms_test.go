package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindForm(t *testing.T, values url.Values, form interface{}) map[string]string {
	t.Helper()
	require.NoError(t, registerValidators())

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return fieldErrors(c.ShouldBind(form))
}

func TestRegisterForm(t *testing.T) {
	valid := url.Values{
		"username":  {"jane.doe+1"},
		"email":     {"jane@example.com"},
		"password1": {"s3cret-pass"},
		"password2": {"s3cret-pass"},
	}

	tests := []struct {
		name    string
		change  func(v url.Values)
		wantErr map[string]string
	}{
		{
			name:    "valid",
			change:  func(v url.Values) {},
			wantErr: map[string]string{},
		},
		{
			name:    "missing username",
			change:  func(v url.Values) { v.Del("username") },
			wantErr: map[string]string{"username": "This field is required."},
		},
		{
			name:   "bad username characters",
			change: func(v url.Values) { v.Set("username", "jane doe") },
			wantErr: map[string]string{
				"username": "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.",
			},
		},
		{
			name:    "bad email",
			change:  func(v url.Values) { v.Set("email", "jane") },
			wantErr: map[string]string{"email": "Enter a valid email address."},
		},
		{
			name: "short password",
			change: func(v url.Values) {
				v.Set("password1", "abc")
				v.Set("password2", "abc")
			},
			wantErr: map[string]string{"password1": "Ensure this value has at least 8 characters."},
		},
		{
			name: "numeric password",
			change: func(v url.Values) {
				v.Set("password1", "12345678")
				v.Set("password2", "12345678")
			},
			wantErr: map[string]string{"password1": "This password is entirely numeric."},
		},
		{
			name:    "passwords differ",
			change:  func(v url.Values) { v.Set("password2", "other-pass") },
			wantErr: map[string]string{"password2": "The two password fields didn't match."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			for k, v := range valid {
				values[k] = append([]string(nil), v...)
			}
			tt.change(values)

			var form RegisterForm
			assert.Equal(t, tt.wantErr, bindForm(t, values, &form))
		})
	}
}

func TestRoomForm(t *testing.T) {
	var form RoomForm
	errs := bindForm(t, url.Values{"topic": {"Python"}, "name": {strings.Repeat("x", 201)}}, &form)
	assert.Equal(t, map[string]string{"name": "Ensure this value has at most 200 characters."}, errs)

	form = RoomForm{}
	assert.Empty(t, bindForm(t, url.Values{"name": {"Lets learn"}}, &form))
	assert.Equal(t, "Lets learn", form.Name)
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	assert.Empty(t, fieldErrors(nil))
	assert.Equal(t, map[string]string{"form": "boom"}, fieldErrors(errors.New("boom")))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/room/1", safeNext("/room/1"))
	assert.Equal(t, "/", safeNext(""))
	assert.Equal(t, "/", safeNext("https://evil.example"))
	assert.Equal(t, "/", safeNext("//evil.example"))
	assert.Equal(t, "/", safeNext(`/\evil.example`))
}

func TestBindMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		body     string
		wantBody string
		wantErr  map[string]string
	}{
		{name: "plain", body: "hello", wantBody: "hello"},
		{name: "trimmed", body: "  hello \n", wantBody: "hello"},
		{name: "empty", body: "", wantErr: map[string]string{"body": "This field is required."}},
		{name: "whitespace only", body: " \t\n ", wantErr: map[string]string{"body": "This field is required."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{"body": {tt.body}}.Encode()))
			c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			body, err := bindMessage(c, binding.Form)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, fieldErrors(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
