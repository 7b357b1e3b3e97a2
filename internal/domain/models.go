// Package domain defines the record shapes persisted in the document
// collections. All timestamps serialize as RFC 3339 strings.
package domain

import "time"

// Collection names. Each maps to one whole-collection blob.
const (
	CollectionUsers        = "users"
	CollectionIdeas        = "ideas"
	CollectionProducts     = "products"
	CollectionTransactions = "transactions"
	CollectionAssociations = "associations"
)

// Transaction types.
const (
	TxMintBit           = "mint_bit"
	TxAnonymousTransfer = "anonymous_transfer"
	TxBurnForAsset      = "burn_for_asset"
	TxMintNFT           = "mint_nft"
)

// TxStatusPending is the initial status of every recorded transaction.
const TxStatusPending = "pending"

// User is a registered platform user keyed by Cardano address.
type User struct {
	ID         string    `json:"id"`
	Address    string    `json:"address"`
	Name       string    `json:"name"`
	IsVerified bool      `json:"isVerified"`
	IsAdmin    bool      `json:"isAdmin,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PublicUser is the listing view of a user with sensitive fields
// stripped.
type PublicUser struct {
	ID         string    `json:"id"`
	Address    string    `json:"address"`
	Name       string    `json:"name"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Public returns the stripped listing view.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Address:    u.Address,
		Name:       u.Name,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

// Balances reports on-chain holdings for a user address.
type Balances struct {
	NFTs   int64 `json:"nfts"`
	Bits   int64 `json:"bits"`
	Assets int64 `json:"assets"`
}

// UserDetail is the per-address view including live balances.
type UserDetail struct {
	ID         string    `json:"id"`
	Address    string    `json:"address"`
	Name       string    `json:"name"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Balances   Balances  `json:"balances"`
}

// Idea is a submitted platform idea.
type Idea struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Submitter   string    `json:"submitter"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Product is a creator-owned product, optionally associated with ideas.
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	Creator         string    `json:"creator"`
	AssociatedIdeas []string  `json:"associatedIdeas"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Transaction records an initiated on-chain operation. TxHash stays null
// until the transaction is submitted by an external worker.
type Transaction struct {
	ID                  string    `json:"id"`
	Type                string    `json:"type"`
	UserAddress         string    `json:"userAddress,omitempty"`
	Amount              int64     `json:"amount,omitempty"`
	Receiver            string    `json:"receiver,omitempty"`
	IntermediaryAddress string    `json:"intermediaryAddress,omitempty"`
	IdeaID              string    `json:"ideaId,omitempty"`
	AssetShares         int64     `json:"assetShares,omitempty"`
	Status              string    `json:"status"`
	TxHash              *string   `json:"txHash"`
	CreatedAt           time.Time `json:"createdAt"`
}

// Association links an idea to a product.
type Association struct {
	ID        string    `json:"id"`
	IdeaID    string    `json:"ideaId"`
	ProductID string    `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}
