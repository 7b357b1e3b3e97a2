package api

import (
	"net/http"

	"github.com/soil-network/platform-api/internal/domain"
	"github.com/soil-network/platform-api/internal/httputil"
	"github.com/soil-network/platform-api/internal/router"
)

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var req struct {
		Address string `json:"address"`
		Name    string `json:"name"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.Address == "" || req.Name == "" {
		httputil.BadRequest(w, "Missing required fields")
		return
	}
	if !a.chain.IsValidAddress(req.Address) {
		httputil.BadRequest(w, "Invalid Cardano address")
		return
	}

	var users []domain.User
	a.docs.Read(r.Context(), domain.CollectionUsers, &users)
	for _, u := range users {
		if u.Address == req.Address {
			httputil.Conflict(w, "User already exists")
			return
		}
	}

	now := a.now()
	user := domain.User{
		ID:         a.ids.NewID("user"),
		Address:    req.Address,
		Name:       req.Name,
		IsVerified: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	users = append(users, user)
	if !a.docs.Write(r.Context(), domain.CollectionUsers, users) {
		httputil.InternalError(w, "Failed to save user")
		return
	}

	token, err := a.sessions.Issue(r.Context(), user)
	if err != nil {
		a.log.WithContext(r.Context()).WithError(err).Error("issue session")
		httputil.InternalError(w, "Failed to create session")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"user":    user,
		"token":   token,
		"message": "User registered successfully",
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var req struct {
		Address string `json:"address"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.Address == "" {
		httputil.BadRequest(w, "Address is required")
		return
	}

	var users []domain.User
	a.docs.Read(r.Context(), domain.CollectionUsers, &users)
	for _, user := range users {
		if user.Address != req.Address {
			continue
		}
		token, err := a.sessions.Issue(r.Context(), user)
		if err != nil {
			a.log.WithContext(r.Context()).WithError(err).Error("issue session")
			httputil.InternalError(w, "Failed to create session")
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"user":    user,
			"token":   token,
			"message": "Login successful",
		})
		return
	}
	httputil.NotFound(w, "User not found")
}

// handleVerify runs behind withSession. The verified flag is computed
// live from chain holdings, not from the stored user record.
func (a *API) handleVerify(w http.ResponseWriter, r *http.Request, _ router.Params) {
	user, ok := sessionUser(r.Context())
	if !ok {
		httputil.Unauthorized(w, "Unauthorized")
		return
	}
	hasNFT := a.chain.HasAsset(r.Context(), user.Address, a.cfg.NFTPolicyID)
	user.IsVerified = hasNFT
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"user":     user,
		"verified": hasNFT,
	})
}

// handleLogout revokes the presented token if any. It succeeds even
// without one so clients can always clear local state.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request, _ router.Params) {
	if token := httputil.BearerToken(r); token != "" {
		a.sessions.Revoke(r.Context(), token)
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
