package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/CUknot/forum_backend/database"
	"github.com/CUknot/forum_backend/middleware"
	"github.com/CUknot/forum_backend/models"
	"github.com/CUknot/forum_backend/utils"
	"github.com/gin-gonic/gin"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"max=200" example:"Jane Doe"`
	Username string `json:"username" binding:"required,max=150,username" example:"janedoe"`
	Email    string `json:"email" binding:"required,max=254,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required,min=8,notnumeric" example:"s3cret-pass"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"s3cret-pass"`
}

// ShowLogin renders the login page
func ShowLogin(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, "login_register.html", gin.H{"page": "login", "next": c.Query("next")})
}

// Login checks the submitted credentials and opens a session
func Login(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	password := c.PostForm("password")

	user, err := database.FindUserByEmail(email)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			serverError(c, err)
			return
		}
		addFlash(c, "User does not exist")
	}

	if user != nil && user.ValidatePassword(password) == nil {
		if err := startSession(c, user.ID); err != nil {
			serverError(c, err)
			return
		}
		c.Redirect(http.StatusFound, safeNext(c.Query("next")))
		return
	}

	addFlash(c, "Email OR Password does not exist")
	render(c, http.StatusOK, "login_register.html", gin.H{"page": "login", "next": c.Query("next")})
}

// Logout ends the session
func Logout(c *gin.Context) {
	endSession(c)
	c.Redirect(http.StatusFound, "/")
}

// ShowRegister renders the sign-up page
func ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "login_register.html", gin.H{
		"page":   "register",
		"form":   RegisterForm{},
		"errors": map[string]string{},
	})
}

// Register creates an account from the sign-up form and logs it in
func Register(c *gin.Context) {
	var form RegisterForm
	errs := fieldErrors(c.ShouldBind(&form))

	if err := checkUnique(errs, form.Username, form.Email, 0); err != nil {
		serverError(c, err)
		return
	}

	if len(errs) == 0 {
		user := models.User{
			Name:     form.Name,
			Username: form.Username,
			Email:    form.Email,
			Password: form.Password1,
		}
		if err := database.DB.Create(&user).Error; err == nil {
			if err := startSession(c, user.ID); err != nil {
				serverError(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/")
			return
		}
		errs["form"] = "Failed to create user"
	}

	form.Password1, form.Password2 = "", ""
	addFlash(c, "An error occurred during registration!")
	render(c, http.StatusOK, "login_register.html", gin.H{
		"page":   "register",
		"form":   form,
		"errors": errs,
	})
}

// checkUnique records an error for a username or email another account already uses
func checkUnique(errs map[string]string, username, email string, exceptID uint) error {
	if _, invalid := errs["username"]; !invalid && username != "" {
		taken, err := database.UsernameTaken(username, exceptID)
		if err != nil {
			return err
		}
		if taken {
			errs["username"] = "A user with that username already exists."
		}
	}

	if _, invalid := errs["email"]; !invalid && email != "" {
		taken, err := database.EmailTaken(email, exceptID)
		if err != nil {
			return err
		}
		if taken {
			errs["email"] = "User with this Email already exists."
		}
	}
	return nil
}

// APIRegister godoc
// @Summary Register a new user
// @Description Creates an account and returns a bearer token for it
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterInput true "Registration"
// @Success 201 {object} map[string]interface{} "User registered successfully"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/register [post]
func APIRegister(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": fieldErrors(err)})
		return
	}

	errs := map[string]string{}
	if err := checkUnique(errs, input.Username, input.Email, 0); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing users"})
		return
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists", "fields": errs})
		return
	}

	// Create new user
	user := models.User{
		Name:     input.Name,
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	}

	if result := database.DB.Create(&user); result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	// Generate token
	token, err := utils.GenerateToken(user.ID, settings.JWTSecret, settings.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

// APILogin godoc
// @Summary Log in
// @Description Exchanges email and password for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginInput true "Credentials"
// @Success 200 {object} map[string]interface{} "Login successful"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid email or password"
// @Failure 429 {object} map[string]string "Too many requests"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/login [post]
func APILogin(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": fieldErrors(err)})
		return
	}

	// Find user by email
	user, err := database.FindUserByEmail(input.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	// Validate password
	if err := user.ValidatePassword(input.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email OR Password does not exist"})
		return
	}

	// Generate token
	token, err := utils.GenerateToken(user.ID, settings.JWTSecret, settings.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}
