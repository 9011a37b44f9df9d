package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const usersPath = "/api/users"

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.GetAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]UserDto, len(users))
	for i := range users {
		resp[i] = UserFromDomain(users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserFromDomain(*user))
}

func (h *Handler) filterUsers(c *gin.Context) {
	loginName, present := c.GetQuery("loginName")
	if !present || loginName == "" {
		badRequest(c, "query parameter loginName is required")
		return
	}

	user, err := h.users.GetByLoginName(c.Request.Context(), loginName)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserFromDomain(*user))
}

func (h *Handler) createUser(c *gin.Context) {
	var req UserDto
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.ID != nil {
		badRequest(c, "user id must not be set on create")
		return
	}

	created, ok := h.upsert(c, req)
	if !ok {
		return
	}
	c.Header("Location", fmt.Sprintf("%s/%d", usersPath, *created.ID))
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) updateUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req UserDto
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.ID == nil || *req.ID != id {
		badRequest(c, "user id in path and body do not match")
		return
	}

	updated, ok := h.upsert(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// upsert is shared by create and update: dto to domain, save, and back.
func (h *Handler) upsert(c *gin.Context, dto UserDto) (UserDto, bool) {
	saved, err := h.users.Upsert(c.Request.Context(), UserToDomain(dto))
	if err != nil {
		h.respondError(c, err)
		return UserDto{}, false
	}
	return UserFromDomain(*saved), true
}

func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid user id")
		return 0, false
	}
	return id, true
}
