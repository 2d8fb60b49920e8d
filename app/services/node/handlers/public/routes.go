package public

import (
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// Routes binds all the public routes. The ledger routes live at the root
// since peers fetch chains from http://{host}/chain.
func Routes(app *web.App, cfg Config) {
	pbl := Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, "", "/mine", pbl.Mine)
	app.Handle(http.MethodGet, "", "/chain", pbl.Chain)
	app.Handle(http.MethodGet, "", "/blocks/:num", pbl.Block)
	app.Handle(http.MethodPost, "", "/transactions/new", pbl.SubmitTransaction)
	app.Handle(http.MethodGet, "", "/transactions/pending", pbl.Mempool)
	app.Handle(http.MethodPost, "", "/nodes/register", pbl.RegisterNodes)
	app.Handle(http.MethodGet, "", "/nodes/resolve", pbl.Resolve)
	app.Handle(http.MethodGet, "", "/nodes/list", pbl.Nodes)
	app.Handle(http.MethodGet, "", "/node/status", pbl.Status)

	const version = "v1"

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
}
