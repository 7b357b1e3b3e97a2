// Package api implements the resource handlers of the platform API and
// their route registration.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/soil-network/platform-api/internal/config"
	"github.com/soil-network/platform-api/internal/docstore"
	"github.com/soil-network/platform-api/internal/httputil"
	"github.com/soil-network/platform-api/internal/ident"
	"github.com/soil-network/platform-api/internal/logging"
	"github.com/soil-network/platform-api/internal/router"
	"github.com/soil-network/platform-api/internal/session"
)

// Verifier is the identity/asset verification port. Implementations
// must swallow upstream failures and report "absent"/zero instead of
// erroring (FailSafe).
type Verifier interface {
	IsValidAddress(address string) bool
	HasAsset(ctx context.Context, address, assetID string) bool
	AssetBalance(ctx context.Context, address, assetID string) int64
}

// API bundles the resource handlers.
type API struct {
	docs     *docstore.Store
	sessions *session.Store
	chain    Verifier
	ids      ident.Generator
	cfg      *config.Config
	log      *logging.Logger

	// now is overridable in tests.
	now func() time.Time
}

// Options configures an API.
type Options struct {
	Docs     *docstore.Store
	Sessions *session.Store
	Chain    Verifier
	IDs      ident.Generator
	Config   *config.Config
	Logger   *logging.Logger
}

// New creates the handler bundle.
func New(opts Options) *API {
	log := opts.Logger
	if log == nil {
		log = logging.NewDefault("api")
	}
	ids := opts.IDs
	if ids == nil {
		ids = ident.NewUUID()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	return &API{
		docs:     opts.Docs,
		sessions: opts.Sessions,
		chain:    opts.Chain,
		ids:      ids,
		cfg:      cfg,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register installs every route. Overlapping patterns are ordered
// most-specific-first because dispatch is first-match-wins.
func (a *API) Register(rt *router.Router) {
	rt.Get("/", a.handleRoot)

	rt.Get("/ideas", a.handleIdeasList)
	rt.Get("/ideas/:id", a.handleIdeaGet)
	rt.Post("/ideas", a.handleIdeaCreate)
	rt.Put("/ideas/:id", a.handleIdeaUpdate)
	rt.Delete("/ideas/:id", a.handleIdeaDelete)

	rt.Get("/products", a.handleProductsList)
	rt.Get("/products/:id", a.handleProductGet)
	rt.Post("/products", a.handleProductCreate)
	rt.Put("/products/:id", a.handleProductUpdate)
	rt.Delete("/products/:id", a.handleProductDelete)

	rt.Post("/auth/register", a.handleRegister)
	rt.Post("/auth/login", a.handleLogin)
	rt.Get("/auth/verify", a.withSession(a.handleVerify))
	rt.Post("/auth/logout", a.handleLogout)

	rt.Post("/transactions/mint-bit", a.handleMintBit)
	rt.Post("/transactions/transfer-anonymous", a.handleTransferAnonymous)
	rt.Post("/transactions/burn-for-asset", a.handleBurnForAsset)
	rt.Get("/transactions/:id", a.handleTransactionGet)
	rt.Get("/transactions", a.handleTransactionsList)

	rt.Post("/admin/associate", a.handleAssociate)
	rt.Post("/admin/mint-nft", a.handleMintNFT)
	rt.Get("/admin/associations", a.handleAssociationsList)
	rt.Get("/admin/stats", a.handleStats)

	rt.Get("/users", a.handleUsersList)
	rt.Get("/users/verified", a.handleUsersVerified)
	rt.Get("/users/:address", a.handleUserGet)
	rt.Get("/users/:address/ideas", a.handleUserIdeas)
	rt.Get("/users/:address/products", a.handleUserProducts)
	rt.Get("/users/:address/transactions", a.handleUserTransactions)

	rt.All("*", func(w http.ResponseWriter, r *http.Request, _ router.Params) {
		httputil.WriteError(w, http.StatusNotFound, "Not found")
	})
}

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request, _ router.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("SOIL Platform API"))
}
