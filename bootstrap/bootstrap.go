// Package bootstrap wires the dispatch core's collaborators together and
// runs the two transport servers, grounded on the teacher's
// bootstrap/bootstrap.go Register/Init/Run/Cleanup shape (trimmed to this
// module's domain: no cache/grpc/cronjob/module-system layers, since
// SPEC_FULL.md names no such subsystems).
package bootstrap

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/forbearing/coredb/capability"
	"github.com/forbearing/coredb/config"
	"github.com/forbearing/coredb/gqladapter"
	"github.com/forbearing/coredb/iam"
	pkgzap "github.com/forbearing/coredb/logger/zap"
	"github.com/forbearing/coredb/metrics"
	"github.com/forbearing/coredb/store"
	"github.com/forbearing/coredb/transport/httprpc"
	"github.com/forbearing/coredb/transport/ws"
)

var (
	db         *gorm.DB
	gate       capability.Gate
	wsServer   *ws.Server
	httpServer *httprpc.Server

	wsHTTP   *http.Server
	httpHTTP *http.Server

	cleanups []func()
	mu       sync.Mutex
)

// RegisterCleanup queues fn to run, in reverse order, during Cleanup.
func RegisterCleanup(fn func()) {
	mu.Lock()
	defer mu.Unlock()
	cleanups = append(cleanups, fn)
}

func Cleanup() {
	mu.Lock()
	fns := cleanups
	cleanups = nil
	mu.Unlock()
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// Bootstrap brings up every ambient and domain collaborator: config,
// logging, metrics, the reference datastore, the capability gate, IAM,
// the GraphQL schema cache, and the two network transports. It does not
// start serving; call Run for that.
func Bootstrap() error {
	Register(
		config.Init,
		pkgzap.Init,
		metrics.Init,
		openDatastore,
		initCapability,
	)
	if err := Init(); err != nil {
		return err
	}

	RegisterCleanup(pkgzap.Clean)
	RegisterCleanup(config.Clean)

	return wireTransports()
}

func openDatastore() (err error) {
	if config.App.Postgres.Enable {
		cfg := config.App.Postgres
		dsn := "host=" + cfg.Host +
			" port=" + strconv.Itoa(cfg.Port) +
			" user=" + cfg.Username +
			" password=" + cfg.Password +
			" dbname=" + cfg.Database +
			" sslmode=" + cfg.SSLMode
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(config.App.Sqlite.Path), &gorm.Config{})
	}
	if err != nil {
		return err
	}
	return store.AutoMigrate(db)
}

func initCapability() error {
	g, _, err := capability.Init(config.App.AppInfo.Dir, db, zap.L())
	if err != nil {
		return err
	}
	gate = g
	return nil
}

// trivialSchemaDef is the placeholder schema (a single ping field) that
// compileTrivialSchema compiles for every (namespace, database): the
// actual schema-from-data-model compiler is an external
// collaborator (spec.md §1) this reference wiring doesn't have one of.
const trivialSchemaDef = `
schema { query: Query }
type Query { ping: String! }
`

type trivialResolver struct{}

func (trivialResolver) Ping() string { return "pong" }

func compileTrivialSchema(ctx context.Context, namespace, database string) (*graphql.Schema, error) {
	return graphql.ParseSchema(trivialSchemaDef, trivialResolver{})
}

func wireTransports() error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.App.Redis.Addr,
		Username: config.App.Redis.Username,
		Password: config.App.Redis.Password,
		DB:       config.App.Redis.DB,
	})
	RegisterCleanup(func() { _ = rdb.Close() })

	authAdapter := iam.NewAdapter(db, rdb, []byte(config.App.Auth.JWTSecret), config.App.Auth.TokenTTL, zap.L())
	schemaCache := gqladapter.NewSchemaCache(compileTrivialSchema)
	engine := store.New(db, config.App.Server.Version)

	wsServer = ws.NewServer(ws.Deps{
		Engine: engine, SchemaCache: schemaCache, Auth: authAdapter,
		Gate: gate, GQLSupport: config.App.GraphQL.Enable,
	})
	httpServer = httprpc.NewServer(httprpc.Deps{
		Engine: engine, SchemaCache: schemaCache, Auth: authAdapter,
		Gate: gate, GQLSupport: config.App.GraphQL.Enable,
	})

	if config.App.GraphQL.Enable {
		gqladapter.Install()
	}
	return nil
}

// Run starts both transport listeners and blocks until a termination
// signal or a listener error, mirroring the teacher's router.Run/Stop
// graceful-shutdown pattern.
func Run() error {
	defer Cleanup()

	mux := http.NewServeMux()
	mux.Handle("/ws", wsServer)

	httpMux := http.NewServeMux()
	httpMux.HandleFunc("/rpc/connect", httpServer.Connect)
	httpMux.HandleFunc("/rpc/disconnect", httpServer.Disconnect)
	httpMux.HandleFunc("/rpc", httpServer.Call)
	httpMux.HandleFunc("/rpc/live", httpServer.Live)

	wsAddr := net.JoinHostPort(config.App.Server.Host, strconv.Itoa(config.App.Server.WSPort))
	httpAddr := net.JoinHostPort(config.App.Server.Host, strconv.Itoa(config.App.Server.HTTPPort))

	wsHTTP = &http.Server{
		Addr: wsAddr, Handler: mux,
		ReadTimeout: config.App.Server.ReadTimeout, WriteTimeout: config.App.Server.WriteTimeout,
	}
	httpHTTP = &http.Server{
		Addr: httpAddr, Handler: httpMux,
		ReadTimeout: config.App.Server.ReadTimeout, WriteTimeout: config.App.Server.WriteTimeout,
	}

	RegisterCleanup(stopServers)

	zap.S().Infow("coredb rpc listening", "ws_addr", wsAddr, "http_addr", httpAddr)

	errCh := make(chan error, 2)
	go func() { errCh <- wsHTTP.ListenAndServe() }()
	go func() { errCh <- httpHTTP.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-sigCh:
		zap.S().Infow("shutting down on signal", "signal", sig)
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

func stopServers() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if wsHTTP != nil {
		_ = wsHTTP.Shutdown(ctx)
	}
	if httpHTTP != nil {
		_ = httpHTTP.Shutdown(ctx)
	}
}
