package api

import (
	"mobilestore/internal/auth"
	"mobilestore/internal/service"

	"github.com/gin-gonic/gin"
)

// register creates a new account
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Register successfully", user)
}

// login authenticates by email or phone. The access token rides in the
// response body; the refresh token goes out as an httpOnly cookie.
func (h *Handler) login(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.users.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}

	maxAge := int(h.tokens.RefreshTTL().Seconds())
	c.SetCookie(refreshCookieName, result.RefreshToken, maxAge, "/", "", false, true)

	respondOK(c, "Login successfully", gin.H{
		"user":        result.User,
		"accessToken": result.AccessToken,
	})
}

// logout clears the session cookie and the refresh allowlist entry
func (h *Handler) logout(c *gin.Context) {
	if token, err := c.Cookie(refreshCookieName); err == nil && token != "" {
		if claims, err := h.tokens.ParseRefreshToken(token); err == nil {
			if err := h.users.Logout(c.Request.Context(), claims.UserID); err != nil {
				respondErr(c, err)
				return
			}
		}
	}
	c.SetCookie(refreshCookieName, "", -1, "/", "", false, true)
	respondOK(c, "Logout successfully", nil)
}

// refreshToken exchanges the cookie for a fresh access token
func (h *Handler) refreshToken(c *gin.Context) {
	token, err := c.Cookie(refreshCookieName)
	if err != nil || token == "" {
		respondErr(c, service.ErrMissingRefreshToken)
		return
	}

	access, err := h.users.RefreshToken(c.Request.Context(), token)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Token refreshed successfully", gin.H{"accessToken": access})
}

// getAllUsers lists every account (admin only)
func (h *Handler) getAllUsers(c *gin.Context) {
	users, err := h.users.GetAllUsers(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Get all users successfully", users)
}

// getDetailUser fetches one account
func (h *Handler) getDetailUser(c *gin.Context) {
	user, err := h.users.GetDetailUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "Get detail user successfully", user)
}

// updateUser applies profile changes
func (h *Handler) updateUser(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "User updated successfully", user)
}

// deleteUser removes an account (admin only)
func (h *Handler) deleteUser(c *gin.Context) {
	claims := auth.ClaimsFromContext(c)
	if claims != nil && claims.UserID == c.Param("id") {
		respondErr(c, service.ErrSelfDelete)
		return
	}
	if err := h.users.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, "User deleted successfully", nil)
}
