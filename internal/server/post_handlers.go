package server

import (
	"fmt"
	"strconv"
	"strings"

	"ideahub/internal/models"
	"ideahub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postRequest is the shared payload shape for creating posts. Fields that
// do not apply to the requested type are rejected by the service layer.
type postRequest struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
	CategoryIDs []uint `json:"category_ids"`

	AllowMultipleAnswers bool     `json:"allow_multiple_answers"`
	Options              []string `json:"options"`

	TargetAmount float64 `json:"target_amount"`

	ProfessionalRole string `json:"professional_role"`
	Location         string `json:"location"`
}

// CreatePost creates a new post of any content type
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Create(ctx, userID, service.CreatePostInput{
		Type:                 models.PostType(req.Type),
		Title:                req.Title,
		Description:          req.Description,
		Language:             req.Language,
		CategoryIDs:          req.CategoryIDs,
		AllowMultipleAnswers: req.AllowMultipleAnswers,
		Options:              req.Options,
		TargetAmount:         req.TargetAmount,
		ProfessionalRole:     req.ProfessionalRole,
		Location:             req.Location,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns a single post by ID
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.Get(ctx, id, s.optionalViewer(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// GetPosts returns a filtered, paginated post listing
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := parsePagination(c, 20)

	opts := service.ListPostsOptions{
		Language: c.Query("language"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	}

	if raw := c.Query("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				opts.Types = append(opts.Types, models.PostType(strings.ToUpper(t)))
			}
		}
	}
	if raw := c.Query("categories"); raw != "" {
		ids, err := parseIDList(raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid category filter"))
		}
		opts.CategoryIDs = ids
	}
	if author := c.QueryInt("author", 0); author > 0 {
		opts.AuthorProfileID = uint(author)
	}
	if raw := c.Query("featured"); raw != "" {
		featured := raw == "true" || raw == "1"
		opts.Featured = &featured
	}

	posts, total, err := s.postService.List(ctx, opts)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":  posts,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}

// UpdatePost applies a partial update to a post owned by the caller
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Language    *string `json:"language"`
		CategoryIDs *[]uint `json:"category_ids"`

		AllowMultipleAnswers *bool     `json:"allow_multiple_answers"`
		Options              *[]string `json:"options"`

		ProfessionalRole *string `json:"professional_role"`
		Location         *string `json:"location"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.Update(ctx, userID, id, service.UpdatePostInput{
		Title:                req.Title,
		Description:          req.Description,
		Language:             req.Language,
		CategoryIDs:          req.CategoryIDs,
		AllowMultipleAnswers: req.AllowMultipleAnswers,
		Options:              req.Options,
		ProfessionalRole:     req.ProfessionalRole,
		Location:             req.Location,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost permanently removes a post owned by the caller
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(ctx, userID, id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// SetRaisedAmount updates the raised amount of a fundraiser
func (s *Server) SetRaisedAmount(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.SetRaisedAmount(ctx, userID, id, req.Amount)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// SetFeaturedImage sets the hero image of a post owned by the caller
func (s *Server) SetFeaturedImage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		URL      string `json:"url"`
		PublicID string `json:"public_id"`
		AltText  string `json:"alt_text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.postService.SetFeaturedImage(ctx, userID, id, req.URL, req.PublicID, req.AltText); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Featured image updated"})
}

// AddAttachment attaches an uploaded image to a post owned by the caller
func (s *Server) AddAttachment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		URL      string `json:"url"`
		PublicID string `json:"public_id"`
		AltText  string `json:"alt_text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	attachment, err := s.postService.AddAttachment(ctx, userID, id, req.URL, req.PublicID, req.AltText)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(attachment)
}

// RemoveAttachment removes an attachment from a post owned by the caller
func (s *Server) RemoveAttachment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	attachmentID, err := s.parseID(c, "attachmentId")
	if err != nil {
		return nil
	}

	if err := s.postService.RemoveAttachment(ctx, userID, id, attachmentID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Attachment removed"})
}

// FeaturePost marks a post as featured (admin only)
func (s *Server) FeaturePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.SetFeatured(ctx, s.viewer(c), id, true); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post featured"})
}

// UnfeaturePost clears the featured flag of a post (admin only)
func (s *Server) UnfeaturePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.SetFeatured(ctx, s.viewer(c), id, false); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post unfeatured"})
}

// parseIDList parses a comma-separated list of numeric IDs.
func parseIDList(raw string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, err
		}
		if id == 0 {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
