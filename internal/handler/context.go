package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"contractor_connect/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxPageLimit = 100

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (string, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return "", errors.New("invalid user ID type in context")
	}
	return userID, nil
}

// Helper to get authenticated user role from context
func getAuthUserRole(c *gin.Context) (string, error) {
	roleVal, exists := c.Get(middleware.AuthRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := roleVal.(string)
	if !ok {
		return "", errors.New("invalid user role type in context")
	}
	return role, nil
}

// authIdentity reads both values and writes the 401 itself on failure
func authIdentity(c *gin.Context) (userID, role string, ok bool) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return "", "", false
	}
	role, err = getAuthUserRole(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return "", "", false
	}
	return userID, role, true
}

// parseSkipLimit reads the skip/limit query pair; limit defaults to 20 and is capped at 100
func parseSkipLimit(c *gin.Context) (skip, limit int, err error) {
	limit = 20
	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit <= 0 || limit > maxPageLimit {
			return 0, 0, fmt.Errorf("invalid limit parameter, must be an integer in [1:%d]", maxPageLimit)
		}
	}
	if v := c.Query("skip"); v != "" {
		skip, err = strconv.Atoi(v)
		if err != nil || skip < 0 {
			return 0, 0, errors.New("invalid skip parameter, must be a non-negative integer")
		}
	}
	return skip, limit, nil
}

// pathID reads the :id parameter; anything that is not a UUID cannot name a
// row, so it answers 404 with notFound and reports false
func pathID(c *gin.Context, notFound error) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		respondError(c, notFound, "Not found")
		return "", false
	}
	return id, true
}

func optionalQuery(c *gin.Context, key string) *string {
	if v := c.Query(key); v != "" {
		return &v
	}
	return nil
}

func respondQueryError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []ValidationIssue{{
		Loc:  []string{"query"},
		Msg:  err.Error(),
		Type: "value_error",
	}}})
}
