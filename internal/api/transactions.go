package api

import (
	"net/http"
	"sort"

	"github.com/soil-network/platform-api/internal/domain"
	"github.com/soil-network/platform-api/internal/httputil"
	"github.com/soil-network/platform-api/internal/router"
)

// handleMintBit records a bit-token mint for a verified user. The
// request only records intent; an external worker submits the chain
// transaction and fills in txHash later.
func (a *API) handleMintBit(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var req struct {
		UserAddress string `json:"userAddress"`
		Amount      int64  `json:"amount"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.UserAddress == "" {
		httputil.BadRequest(w, "User address is required")
		return
	}
	if req.Amount == 0 {
		req.Amount = 1
	}

	if !a.chain.HasAsset(r.Context(), req.UserAddress, a.cfg.NFTPolicyID) {
		httputil.Forbidden(w, "User must be verified to mint bit tokens")
		return
	}
	currentBalance := a.chain.AssetBalance(r.Context(), req.UserAddress, a.cfg.BitTokenPolicyID)

	tx := domain.Transaction{
		ID:          a.ids.NewID("mint"),
		Type:        domain.TxMintBit,
		UserAddress: req.UserAddress,
		Amount:      req.Amount,
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
		"message":     "Bit token minting initiated",
		"newBalance":  currentBalance + req.Amount,
	})
}

// handleTransferAnonymous records a bit transfer routed through the
// configured intermediary wallet so sender and receiver are never
// linked on chain.
func (a *API) handleTransferAnonymous(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var req struct {
		Amount   int64  `json:"amount"`
		Receiver string `json:"receiver"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.Amount == 0 || req.Receiver == "" {
		httputil.BadRequest(w, "Amount and receiver address are required")
		return
	}
	if req.Amount <= 0 || req.Amount > 10 {
		httputil.BadRequest(w, "Amount must be between 1 and 10")
		return
	}
	if !a.chain.IsValidAddress(req.Receiver) {
		httputil.BadRequest(w, "Invalid receiver address")
		return
	}

	tx := domain.Transaction{
		ID:                  a.ids.NewID("transfer"),
		Type:                domain.TxAnonymousTransfer,
		Amount:              req.Amount,
		Receiver:            req.Receiver,
		IntermediaryAddress: a.cfg.IntermediaryWalletAddress,
		Status:              domain.TxStatusPending,
		TxHash:              nil,
		CreatedAt:           a.now(),
	}
	if !a.docs.Append(r.Context(), domain.CollectionTransactions, tx) {
		httputil.InternalError(w, "Failed to save transaction")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"transaction": tx,
		"message":     "Anonymous transfer initiated",
	})
}

// handleBurnForAsset burns bit tokens against an idea in exchange for
// asset shares at a 1:1 ratio.
func (a *API) handleBurnForAsset(w http.ResponseWriter, r *http.Request, _ router.Params) {
	var req struct {
		UserAddress string `json:"userAddress"`
		IdeaID      string `json:"ideaId"`
		Amount      int64  `json:"amount"`
	}
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.UserAddress == "" || req.IdeaID == "" || req.Amount == 0 {
		httputil.BadRequest(w, "User address, idea ID, and amount are required")
		return
	}

	bitBalance := a.chain.AssetBalance(r.Context(), req.UserAddress, a.cfg.BitTokenPolicyID)
	if bitBalance < req.Amount {
		httputil.BadRequest(w, "Insufficient bit tokens")
		return
	}

	var ideas []domain.Idea
	a.docs.Read(r.Context(), domain.CollectionIdeas, &ideas)
	found := false
	for _, idea := range ideas {
		if idea.ID == req.IdeaID {
			found = true
			break
		}
	}
	if !found {
		httputil.NotFound(w, "Idea not found")
		return
	}

	tx := domain.Transaction{
		ID:          a.ids.NewID("burn"),
		Type:        domain.TxBurnForAsset,
		UserAddress: req.UserAddress,
		IdeaID:      req.IdeaID,
		Amount:      req.Amount,
		AssetShares: req.Amount,
		Status:      domain.TxStatusPending,
		TxHash:      nil,
		CreatedAt:   a.now(),
	}
	if !a.docs.Append(r.Context(), domain.CollectionTransactions, tx) {
		httputil.InternalError(w, "Failed to save transaction")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"transaction":    tx,
		"message":        "Asset shares minting initiated",
		"newBitBalance":  bitBalance - req.Amount,
		"newAssetShares": req.Amount,
	})
}

func (a *API) handleTransactionGet(w http.ResponseWriter, r *http.Request, p router.Params) {
	var txs []domain.Transaction
	a.docs.Read(r.Context(), domain.CollectionTransactions, &txs)
	for _, tx := range txs {
		if tx.ID == p["id"] {
			httputil.WriteJSON(w, http.StatusOK, tx)
			return
		}
	}
	httputil.NotFound(w, "Transaction not found")
}

func (a *API) handleTransactionsList(w http.ResponseWriter, r *http.Request, _ router.Params) {
	q := r.URL.Query()
	txType := q.Get("type")
	userAddress := q.Get("userAddress")
	status := q.Get("status")

	var txs []domain.Transaction
	a.docs.Read(r.Context(), domain.CollectionTransactions, &txs)

	filtered := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if txType != "" && tx.Type != txType {
			continue
		}
		if userAddress != "" && tx.UserAddress != userAddress {
			continue
		}
		if status != "" && tx.Status != status {
			continue
		}
		filtered = append(filtered, tx)
	}

	// Newest first.
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	httputil.WriteJSON(w, http.StatusOK, filtered)
}
