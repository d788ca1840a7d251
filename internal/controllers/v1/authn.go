package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grantflow/backend/internal/auth"
	"github.com/grantflow/backend/internal/httputil"
	"github.com/grantflow/backend/internal/models"
)

// LoginEditable is the request body for the login endpoint.
type LoginEditable struct {
	Email    string `json:"email" binding:"required" example:"treasurer@example.com"`
	Password string `json:"password" binding:"required"`
}

type LoginData struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type LoginResponse struct {
	Data  *LoginData `json:"data"`
	Error *string    `json:"error"`
}

// @Summary		Log in
// @Description	Issues a bearer token for a staff account
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200		{object}	LoginResponse
// @Failure		400		{object}	LoginResponse
// @Failure		401		{object}	LoginResponse
// @Param			body	body		LoginEditable	true	"Credentials"
// @Router			/v1/auth/login [post]
func Login(c *gin.Context) {
	var editable LoginEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, LoginResponse{Error: &s})
		return
	}

	var user models.User
	err = models.DB.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(editable.Email))).Error

	// The same error is returned for an unknown email and a wrong
	// password
	if err != nil || !user.CheckPassword(editable.Password) {
		s := errInvalidCredentials.Error()
		c.JSON(http.StatusUnauthorized, LoginResponse{Error: &s})
		return
	}

	token, err := auth.NewToken(user, auth.Secret())
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusInternalServerError, LoginResponse{Error: &s})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Data: &LoginData{Token: token, User: user}})
}

// UserEditable is the request body for creating a staff account.
type UserEditable struct {
	Email     string `json:"email" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Admin     bool   `json:"admin"`
	Treasurer bool   `json:"treasurer"`
	Password  string `json:"password"`
}

type UserResponse struct {
	Data  *models.User `json:"data"`
	Error *string      `json:"error"`
}

// @Summary		Create staff account
// @Description	Creates a new staff account. Only admins can create accounts.
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		201		{object}	UserResponse
// @Failure		400		{object}	UserResponse
// @Failure		500		{object}	UserResponse
// @Param			body	body		UserEditable	true	"Account"
// @Router			/v1/auth/users [post]
func CreateUser(c *gin.Context) {
	var editable UserEditable
	err := httputil.BindData(c, &editable)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, UserResponse{Error: &s})
		return
	}

	if editable.Password == "" {
		s := errPasswordMissing.Error()
		c.JSON(http.StatusBadRequest, UserResponse{Error: &s})
		return
	}

	user := models.User{
		Email:     editable.Email,
		FirstName: editable.FirstName,
		LastName:  editable.LastName,
		Admin:     editable.Admin,
		Treasurer: editable.Treasurer,
	}

	err = user.SetPassword(editable.Password)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusInternalServerError, UserResponse{Error: &s})
		return
	}

	err = models.DB.Create(&user).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{Error: &s})
		return
	}

	c.JSON(http.StatusCreated, UserResponse{Data: &user})
}
