package api

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"

	"github.com/saeidalz13/armada/db/sqlc"
	"github.com/saeidalz13/armada/internal/config"
	"github.com/saeidalz13/armada/internal/ranking"
	mc "github.com/saeidalz13/armada/models/connection"
)

const (
	defaultPort    = 8000
	defaultRanking = "ranking.json"

	// ranking and health endpoints are tiny reads
	httpHandlerTimeout = time.Second * 10
)

var upgrader = websocket.Upgrader{
	// good average time since this is not a high-latency operation such as video streaming
	HandshakeTimeout: time.Second * 5,

	// probably more that enough but this is a good average size
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Server struct {
	port           int
	stage          string
	store          ranking.Store
	querier        sqlc.Querier
	matchConfig    MatchConfig
	sessionManager *mc.ArmadaSessionManager
	coordinator    *Coordinator
	router         chi.Router
}

type Option func(*Server) error

func NewServer(optFuncs ...Option) *Server {
	server := Server{
		port:        defaultPort,
		stage:       config.StageDev,
		matchConfig: DefaultMatchConfig(),
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			panic(err)
		}
	}
	if server.store == nil {
		server.store = ranking.NewFileStore(defaultRanking)
	}

	var analytics *sqlc.AnalyticsManager
	var serverIp pqtype.Inet
	if server.querier != nil {
		analytics = sqlc.NewDbManager(server.querier).Analytics
		serverIp = mustGetServerIpNet()
	}

	server.sessionManager = mc.NewArmadaSessionManager()
	server.coordinator = NewCoordinator(server.matchConfig, server.sessionManager, server.store, analytics, serverIp)
	server.router = server.routes()

	return &server
}

func WithPort(port int) Option {
	return func(s *Server) error {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port: %d", port)
		}
		s.port = port
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != config.StageProd && stage != config.StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.stage = stage
		return nil
	}
}

func WithRankingStore(store ranking.Store) Option {
	return func(s *Server) error {
		if store == nil {
			return fmt.Errorf("ranking store cannot be nil")
		}
		s.store = store
		return nil
	}
}

func WithMatchConfig(cfg MatchConfig) Option {
	return func(s *Server) error {
		if err := cfg.validate(); err != nil {
			return err
		}
		s.matchConfig = cfg
		return nil
	}
}

// WithQuerier turns on server analytics.
func WithQuerier(q sqlc.Querier) Option {
	return func(s *Server) error {
		s.querier = q
		return nil
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.stage == config.StageDev {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// websocket handler must not be wrapped in a timeout
	r.Get("/battleship", s.HandleWs)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(httpHandlerTimeout))
		r.Get("/ranking", s.HandleRanking)
		r.Get("/healthz", s.HandleHealth)
	})
	return r
}

func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the match coordinator until ctx is done.
func (s *Server) Start(ctx context.Context) {
	go s.sessionManager.CleanupPeriodically(ctx.Done())
	go func() {
		if err := s.coordinator.Run(ctx); err != nil && ctx.Err() == nil {
			log.Println("coordinator stopped:", err)
		}
	}()
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	s.Start(ctx)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: time.Second * 5,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("Listening to port %d\n", s.port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// The first IPv4 address of an interface that is up and not a
// loopback. Falls back to 127.0.0.1 so analytics still have a key.
func mustGetServerIpNet() pqtype.Inet {
	fallback := pqtype.Inet{
		IPNet: net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(32, 32)},
		Valid: true,
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		panic(err)
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			panic(err)
		}

		for _, addr := range addrs {
			var ip net.IP

			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			if ip != nil && ip.To4() != nil && !ip.IsLoopback() {
				return pqtype.Inet{
					IPNet: net.IPNet{IP: ip.To4(), Mask: net.CIDRMask(32, 32)},
					Valid: true,
				}
			}
		}
	}

	log.Println("no non-loopback ipv4 address found; analytics keyed by 127.0.0.1")
	return fallback
}
