package api

import (
	"net/http"
	"sync"

	"github.com/soil-network/platform-api/internal/domain"
	"github.com/soil-network/platform-api/internal/httputil"
	"github.com/soil-network/platform-api/internal/router"
)

// handleAssociate links an idea to a product, in two writes: the
// product's associatedIdeas list and a standalone association record.
func (a *API) handleAssociate(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var req struct {
		IdeaID    string `json:"ideaId"`
		ProductID string `json:"productId"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.IdeaID == "" || req.ProductID == "" {
		httputil.BadRequest(w, "Idea ID and Product ID are required")
		return
	}

	var ideas []domain.Idea
	a.docs.Read(r.Context(), domain.CollectionIdeas, &ideas)
	var idea *domain.Idea
	for i := range ideas {
		if ideas[i].ID == req.IdeaID {
			idea = &ideas[i]
			break
		}
	}
	if idea == nil {
		httputil.NotFound(w, "Idea not found")
		return
	}

	var products []domain.Product
	a.docs.Read(r.Context(), domain.CollectionProducts, &products)
	var product *domain.Product
	for i := range products {
		if products[i].ID == req.ProductID {
			product = &products[i]
			break
		}
	}
	if product == nil {
		httputil.NotFound(w, "Product not found")
		return
	}

	for _, id := range product.AssociatedIdeas {
		if id == req.IdeaID {
			httputil.Conflict(w, "Idea already associated with this product")
			return
		}
	}

	now := a.now()
	product.AssociatedIdeas = append(product.AssociatedIdeas, req.IdeaID)
	product.UpdatedAt = now
	if !a.docs.Write(r.Context(), domain.CollectionProducts, products) {
		httputil.InternalError(w, "Failed to save product")
		return
	}

	assoc := domain.Association{
		ID:        a.ids.NewID("assoc"),
		IdeaID:    req.IdeaID,
		ProductID: req.ProductID,
		CreatedAt: now,
	}
	if !a.docs.Append(r.Context(), domain.CollectionAssociations, assoc) {
		httputil.InternalError(w, "Failed to save association")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Idea associated with product successfully",
		"product": product,
		"idea":    idea,
	})
}

func (a *API) handleMintNFT(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var req struct {
		UserAddress string `json:"userAddress"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.UserAddress == "" {
		httputil.BadRequest(w, "User address is required")
		return
	}
	if !a.chain.IsValidAddress(req.UserAddress) {
		httputil.BadRequest(w, "Invalid Cardano address")
		return
	}
	if a.chain.HasAsset(r.Context(), req.UserAddress, a.cfg.NFTPolicyID) {
		httputil.Conflict(w, "User already has identity NFT")
		return
	}

	tx := domain.Transaction{
		ID:          a.ids.NewID("nft"),
		Type:        domain.TxMintNFT,
		UserAddress: req.UserAddress,
		Status:      domain.TxStatusPending,
		TxHash:      nil,
		CreatedAt:   a.now(),
	}
	if !a.docs.Append(r.Context(), domain.CollectionTransactions, tx) {
		httputil.InternalError(w, "Failed to save transaction")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"transaction": tx,
		"message":     "Identity NFT minting initiated",
	})
}

func (a *API) handleAssociationsList(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var assocs []domain.Association
	a.docs.Read(r.Context(), domain.CollectionAssociations, &assocs)
	if assocs == nil {
		assocs = []domain.Association{}
	}
	httputil.WriteJSON(w, http.StatusOK, assocs)
}

// handleStats aggregates counts across all collections. The five loads
// are independent, so they fan out concurrently and join before
// aggregation.
func (a *API) handleStats(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var (
		users        []domain.User
		ideas        []domain.Idea
		products     []domain.Product
		transactions []domain.Transaction
		associations []domain.Association
	)

	var wg sync.WaitGroup
	loads := []func(){
		func() { a.docs.Read(r.Context(), domain.CollectionUsers, &users) },
		func() { a.docs.Read(r.Context(), domain.CollectionIdeas, &ideas) },
		func() { a.docs.Read(r.Context(), domain.CollectionProducts, &products) },
		func() { a.docs.Read(r.Context(), domain.CollectionTransactions, &transactions) },
		func() { a.docs.Read(r.Context(), domain.CollectionAssociations, &associations) },
	}
	wg.Add(len(loads))
	for _, load := range loads {
		go func(load func()) {
			defer wg.Done()
			load()
		}(load)
	}
	wg.Wait()

	verifiedUsers := 0
	for _, user := range users {
		if a.chain.HasAsset(r.Context(), user.Address, a.cfg.NFTPolicyID) {
			verifiedUsers++
		}
	}

	txTypes := map[string]int{}
	for _, tx := range transactions {
		txTypes[tx.Type]++
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"totalUsers":        len(users),
		"verifiedUsers":     verifiedUsers,
		"totalIdeas":        len(ideas),
		"totalProducts":     len(products),
		"totalTransactions": len(transactions),
		"totalAssociations": len(associations),
		"transactionTypes":  txTypes,
	})
}
