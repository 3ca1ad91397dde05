package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"schoolku_backend/internals/configs"
	authDTO "schoolku_backend/internals/features/users/auth/dto"
	authModel "schoolku_backend/internals/features/users/auth/model"
	helper "schoolku_backend/internals/helpers"
)

type AuthController struct {
	DB *gorm.DB
}

/* =========================================================
   LOGIN
   POST /api/auth/login
   ========================================================= */
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authDTO.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Body tidak valid")
	}
	req.Normalize()
	if err := validator.New().Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	var user authModel.UserModel
	err := h.DB.WithContext(c.UserContext()).
		Where("user_email = ?", req.Email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membaca data user")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.UserPassword), []byte(req.Password)) != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Email atau password salah")
	}

	var roleRow authModel.UserRoleModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("user_role_user_id = ?", user.UserID).
		First(&roleRow).Error; err != nil {
		return fiber.NewError(fiber.StatusForbidden, "User belum punya role")
	}

	claims := jwt.MapClaims{
		"sub":  user.UserID.String(),
		"role": roleRow.UserRoleRole,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(12 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Gagal membuat token")
	}

	return helper.JsonOK(c, "Login berhasil", authDTO.LoginResponse{
		AccessToken: signed,
		User:        authDTO.FromUserModel(user, roleRow.UserRoleRole),
	})
}

/* =========================================================
   ME
   GET /api/auth/me
   ========================================================= */
func (h *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	role, err := helper.GetRoleFromToken(c)
	if err != nil {
		return err
	}

	var user authModel.UserModel
	if err := h.DB.WithContext(c.UserContext()).
		Where("user_id = ?", userID).
		First(&user).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "User tidak ditemukan")
	}

	return helper.JsonOK(c, "ok", authDTO.FromUserModel(user, role))
}
