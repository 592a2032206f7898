package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/wherehouse/gate/internal/gate/service"
	"github.com/wherehouse/gate/internal/gate/store"
	"github.com/wherehouse/gate/pkg/httpx"
	"github.com/wherehouse/gate/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers and owns the global
// admission chain: request logging, security headers, ban check, rate
// limiting, then the authentication gate, in that order. Anything a
// handler sees has already been admitted.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	cookieName   string
	secure       bool
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	VaultService  *service.VaultService
	LoginService  *service.LoginService
	BanService    *service.BanService
	BoardService  *service.BoardService
	MemberService *service.MemberService
}

func NewRouter(
	cookieName string,
	secure bool,
	buildVersion string,
	rateCfg RateLimitConfig,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		cookieName:   cookieName,
		secure:       secure,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.VaultService = &service.VaultService{Store: st}
	r.LoginService = &service.LoginService{Store: st}
	r.BanService = &service.BanService{Store: st}
	r.BoardService = &service.BoardService{Store: st}
	r.MemberService = &service.MemberService{Store: st}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		SecurityHeaders(),
		BanGate(r.BanService),
		RateLimit(st.Counters(), rateCfg, cookieName),
		Gate(r.VaultService, DefaultPolicyTable(), cookieName, secure),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerBoards()
	r.registerMembers()
	r.registerSystem()
}

// ServeHTTP applies the global admission chain before dispatching.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSession() {
	r.Mux.Handle("POST /login", &LoginHandler{
		LoginService: r.LoginService,
		VaultService: r.VaultService,
		CookieName:   r.cookieName,
		Secure:       r.secure,
	})
	r.Mux.Handle("GET /loginSuccess", &SessionHandler{})
	r.Mux.Handle("POST /logout", &LogoutHandler{
		VaultService: r.VaultService,
		CookieName:   r.cookieName,
		Secure:       r.secure,
	})
}

func (r *Router) registerBoards() {
	boards := &BoardsHandler{BoardService: r.BoardService}

	r.Mux.HandleFunc("POST /boards", boards.HandleCreate)
	r.Mux.HandleFunc("PUT /boards/{id}", boards.HandleUpdate)
	r.Mux.HandleFunc("DELETE /boards/{id}", boards.HandleDelete)

	r.Mux.Handle("GET /list", &ListHandler{BoardService: r.BoardService})
}

func (r *Router) registerMembers() {
	members := &MembersHandler{
		MemberService: r.MemberService,
		VaultService:  r.VaultService,
		CookieName:    r.cookieName,
		Secure:        r.secure,
	}

	r.Mux.HandleFunc("POST /members", members.HandleRegister)
	r.Mux.HandleFunc("PUT /members/{id}", members.HandleUpdate)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
