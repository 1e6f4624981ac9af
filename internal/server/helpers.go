package server

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"ideahub/internal/models"
	"ideahub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// maxPaginationLimit caps page sizes regardless of the requested value.
const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "postId" -> "post ID", "stepId" -> "step ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// isAdminByUserID checks whether the given user holds the admin authority.
func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

// viewer builds the Viewer identity for an authenticated handler. The admin
// flag is taken from locals when AdminRequired already ran, otherwise looked
// up on demand.
func (s *Server) viewer(c *fiber.Ctx) *service.Viewer {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return nil
	}
	if admin, ok := c.Locals("isAdmin").(bool); ok {
		return &service.Viewer{UserID: userID, Admin: admin}
	}
	admin, err := s.isAdminByUserID(c.UserContext(), userID)
	if err != nil {
		admin = false
	}
	return &service.Viewer{UserID: userID, Admin: admin}
}

// optionalViewer resolves the caller's identity on routes that do not
// require authentication. A valid Bearer token yields a Viewer; anything
// else yields nil (anonymous).
func (s *Server) optionalViewer(c *fiber.Ctx) *service.Viewer {
	if _, ok := c.Locals("userID").(uint); ok {
		return s.viewer(c)
	}

	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil
	}

	admin, err := s.isAdminByUserID(c.UserContext(), uint(userID))
	if err != nil {
		admin = false
	}
	return &service.Viewer{UserID: uint(userID), Admin: admin}
}

// currentUser loads the authenticated user's full record.
func (s *Server) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID := c.Locals("userID").(uint)
	return s.userRepo.GetByID(c.UserContext(), userID)
}
