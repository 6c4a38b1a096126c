package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/studyconnect/tutorhub/services"
)

type PostRequest struct {
	Title            string `json:"title" validate:"required"`
	Subject          string `json:"subject" validate:"required"`
	Description      string `json:"description" validate:"required"`
	BudgetRange      string `json:"budget_range" validate:"required"`
	LevelOfEducation string `json:"level_of_education" validate:"required"`
}

func (h *Handler) CreatePost(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}

	var req PostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	post, err := services.CreatePost(h.DB, *user.TuteeID, services.PostInput{
		Title:            req.Title,
		Subject:          req.Subject,
		Description:      req.Description,
		BudgetRange:      req.BudgetRange,
		LevelOfEducation: req.LevelOfEducation,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

type UpdatePostRequest struct {
	Title            string `json:"title"`
	Subject          string `json:"subject"`
	Description      string `json:"description"`
	BudgetRange      string `json:"budget_range"`
	LevelOfEducation string `json:"level_of_education"`
}

func (h *Handler) UpdatePost(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post id"})
	}

	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	post, err := services.UpdatePost(h.DB, postID, *user.TuteeID, services.PostInput{
		Title:            req.Title,
		Subject:          req.Subject,
		Description:      req.Description,
		BudgetRange:      req.BudgetRange,
		LevelOfEducation: req.LevelOfEducation,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

func (h *Handler) DeletePost(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	if user.TuteeID == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tutee profile not found"})
	}
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post id"})
	}

	if err := services.DeletePost(h.DB, postID, *user.TuteeID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

func (h *Handler) GetPost(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post id"})
	}
	post, err := services.GetPost(h.DB, postID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

// ListPosts is the public post browse, optionally filtered by subject via
// query parameter.
func (h *Handler) ListPosts(c *fiber.Ctx) error {
	posts, err := services.ListPosts(h.DB, c.Query("subject"), nil)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

// ListTuteePosts returns one tutee's posts.
func (h *Handler) ListTuteePosts(c *fiber.Ctx) error {
	tuteeID, err := uuid.Parse(c.Params("tuteeId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tutee id"})
	}
	posts, err := services.ListPosts(h.DB, "", &tuteeID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}
