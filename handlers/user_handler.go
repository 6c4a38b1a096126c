package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/studyconnect/tutorhub/models"
	"github.com/studyconnect/tutorhub/services"
)

// Admin-gated user management.

func (h *Handler) GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.Order("created_at desc").Find(&users).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	var user models.User
	if err := h.DB.First(&user, "id = ?", c.Params("userId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return fail(c, err)
	}
	return c.JSON(user)
}

type UpdateUserRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Username    *string `json:"username"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number"`
	IsAdmin     *bool   `json:"is_admin"`
	IsVerified  *bool   `json:"is_verified"`
}

func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", c.Params("userId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return fail(c, err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}

	if err := h.DB.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username or email is already taken"})
		}
		return fail(c, err)
	}
	return c.JSON(user)
}

// DeleteUser removes the account, its profiles, and the profiles' chat
// rooms in one transaction, so deleting an account cannot leave orphaned
// profiles or rooms pointing at them.
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", c.Params("userId")).Error; err != nil {
			return err
		}
		if user.TutorID != nil {
			if err := services.DeleteRoomsForTutor(tx, *user.TutorID); err != nil {
				return err
			}
			if err := tx.Delete(&models.Tutor{}, "id = ?", *user.TutorID).Error; err != nil {
				return err
			}
		}
		if user.TuteeID != nil {
			if err := services.DeleteRoomsForTutee(tx, *user.TuteeID); err != nil {
				return err
			}
			if err := tx.Delete(&models.Tutee{}, "id = ?", *user.TuteeID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

type AdminRegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	IsAdmin   bool   `json:"is_admin"`
}

// RegisterAdminUser lets an admin create accounts, optionally with the
// admin flag set.
func (h *Handler) RegisterAdminUser(c *fiber.Ctx) error {
	var req AdminRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	newUser := models.User{
		Username:   req.Username,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   string(hashedPassword),
		IsAdmin:    req.IsAdmin,
		IsVerified: true,
	}
	if err := h.DB.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username or email is already taken"})
		}
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toUserResponse(&newUser))
}
