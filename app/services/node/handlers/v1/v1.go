// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/hadcoin/ledger/app/services/node/handlers/v1/private"
	"github.com/hadcoin/ledger/app/services/node/handlers/v1/public"
	"github.com/hadcoin/ledger/foundation/blockchain/state"
	"github.com/hadcoin/ledger/foundation/events"
	"github.com/hadcoin/ledger/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes. Transaction and peer
// routes are only bound when the node has those capabilities turned on.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/mine_block", pbl.MineBlock)
	app.Handle(http.MethodGet, version, "/is_valid", pbl.IsValid)
	app.Handle(http.MethodGet, version, "/events", pbl.Events)

	if cfg.State.IsTransactionsEnabled() {
		app.Handle(http.MethodPost, version, "/add_transaction", pbl.AddTransaction)
		app.Handle(http.MethodGet, version, "/mempool", pbl.Mempool)
	}

	if cfg.State.IsConsensusEnabled() {
		app.Handle(http.MethodPost, version, "/connect_node", pbl.ConnectNode)
		app.Handle(http.MethodGet, version, "/replace_chain", pbl.ReplaceChain)
	}
}

// PrivateRoutes binds all the version 1 routes used between nodes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodGet, version, "/get_chain", prv.GetChain)
	app.Handle(http.MethodGet, version, "/status", prv.Status)
}
