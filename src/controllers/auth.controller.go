package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"cbs/src/db"
	"cbs/src/lib"
	"cbs/src/models"
	"cbs/src/types"
	"cbs/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// PasswordPolicyError carries the individual policy violations so the route
// layer can list them in the response.
type PasswordPolicyError struct {
	Reasons  []string
	Strength string
}

func (e *PasswordPolicyError) Error() string {
	return fmt.Sprintf("password rejected: %s", strings.Join(e.Reasons, "; "))
}

func AuthRegister(ctx *gin.Context) (*types.AuthResult, int, error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	reasons, strength, valid := utils.ValidatePassword(body.Password)
	if !valid {
		return nil, http.StatusBadRequest, &PasswordPolicyError{Reasons: reasons, Strength: strength}
	}

	gdb := db.GetDb()
	var existing int64
	if err := gdb.
		Model(&models.User{}).
		Where("email = ?", strings.ToLower(body.Email)).
		Count(&existing).
		Error; err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if existing > 0 {
		return nil, http.StatusConflict, errors.New("email is already registered")
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}

	user := models.User{
		Name:     body.Name,
		Email:    strings.ToLower(body.Email),
		Phone:    body.Phone,
		Password: hash,
		Role:     types.ROLE_CUSTOMER,
	}
	err = gdb.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&user).Error
	})
	if err != nil {
		log.Printf("Error registering user: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}

	token, err := utils.GenerateJWT(&user)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &types.AuthResult{Token: token, Strength: strength}, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context) (*types.AuthResult, int, error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	gdb := db.GetDb()
	var user models.User
	if err := gdb.
		Model(&models.User{}).
		Where("email = ?", strings.ToLower(body.Email)).
		First(&user).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusUnauthorized, ErrInvalidCredentials
		}
		return nil, http.StatusInternalServerError, err
	}

	if !utils.CheckPassword(user.Password, body.Password) {
		return nil, http.StatusUnauthorized, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(&user)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &types.AuthResult{Token: token}, http.StatusOK, nil
}

// AuthLogout parks the presented token on the revocation list until its own
// expiry. Requires the auth middleware to have run.
func AuthLogout(ctx *gin.Context) (int, error) {
	token := ctx.GetString("token")
	if token == "" {
		return http.StatusBadRequest, errors.New("no token to revoke")
	}
	rd := lib.GetRedisClient()
	if rd == nil {
		return http.StatusOK, nil
	}
	ttl := 24 * time.Hour
	if err := rd.Set(ctx, fmt.Sprintf("revoked:%s", token), "1", ttl).Err(); err != nil {
		log.Printf("[redis] Error revoking token: %s\n", err.Error())
		return http.StatusInternalServerError, err
	}
	return http.StatusOK, nil
}
