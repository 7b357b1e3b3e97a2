package api

import (
	"net/http"

	"github.com/soil-network/platform-api/internal/domain"
	"github.com/soil-network/platform-api/internal/httputil"
	"github.com/soil-network/platform-api/internal/router"
)

func (a *API) handleUsersList(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var users []domain.User
	a.docs.Read(r.Context(), domain.CollectionUsers, &users)
	safe := make([]domain.PublicUser, 0, len(users))
	for _, user := range users {
		safe = append(safe, user.Public())
	}
	httputil.WriteJSON(w, http.StatusOK, safe)
}

// handleUsersVerified lists users currently holding an identity NFT.
// Verification is checked live per user, not from the stored flag.
func (a *API) handleUsersVerified(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var users []domain.User
	a.docs.Read(r.Context(), domain.CollectionUsers, &users)
	verified := make([]domain.PublicUser, 0, len(users))
	for _, user := range users {
		if !a.chain.HasAsset(r.Context(), user.Address, a.cfg.NFTPolicyID) {
			continue
		}
		pub := user.Public()
		pub.IsVerified = true
		verified = append(verified, pub)
	}
	httputil.WriteJSON(w, http.StatusOK, verified)
}

func (a *API) handleUserGet(w http.ResponseWriter, r *http.Request, p router.Params) {
	address := p["address"]
	var users []domain.User
	a.docs.Read(r.Context(), domain.CollectionUsers, &users)
	for _, user := range users {
		if user.Address != address {
			continue
		}
		hasNFT := a.chain.HasAsset(r.Context(), user.Address, a.cfg.NFTPolicyID)
		nfts := int64(0)
		if hasNFT {
			nfts = 1
		}
		detail := domain.UserDetail{
			ID:         user.ID,
			Address:    user.Address,
			Name:       user.Name,
			IsVerified: hasNFT,
			CreatedAt:  user.CreatedAt,
			UpdatedAt:  user.UpdatedAt,
			Balances: domain.Balances{
				NFTs:   nfts,
				Bits:   a.chain.AssetBalance(r.Context(), user.Address, a.cfg.BitTokenPolicyID),
				Assets: a.chain.AssetBalance(r.Context(), user.Address, a.cfg.AssetPolicyID),
			},
		}
		httputil.WriteJSON(w, http.StatusOK, detail)
		return
	}
	httputil.NotFound(w, "User not found")
}

func (a *API) handleUserIdeas(w http.ResponseWriter, r *http.Request, p router.Params) {
	var ideas []domain.Idea
	a.docs.Read(r.Context(), domain.CollectionIdeas, &ideas)
	mine := make([]domain.Idea, 0, len(ideas))
	for _, idea := range ideas {
		if idea.Submitter == p["address"] {
			mine = append(mine, idea)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, mine)
}

func (a *API) handleUserProducts(w http.ResponseWriter, r *http.Request, p router.Params) {
	var products []domain.Product
	a.docs.Read(r.Context(), domain.CollectionProducts, &products)
	mine := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if product.Creator == p["address"] {
			mine = append(mine, product)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, mine)
}

// handleUserTransactions returns transactions touching the address in
// any role: sender, receiver, or intermediary.
func (a *API) handleUserTransactions(w http.ResponseWriter, r *http.Request, p router.Params) {
	address := p["address"]
	var txs []domain.Transaction
	a.docs.Read(r.Context(), domain.CollectionTransactions, &txs)
	mine := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.UserAddress == address || tx.Receiver == address || tx.IntermediaryAddress == address {
			mine = append(mine, tx)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, mine)
}
