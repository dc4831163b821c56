package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ValentinKolb/kvapp/api/common"
	"github.com/ValentinKolb/kvapp/api/server"
	cmdUtil "github.com/ValentinKolb/kvapp/cmd/util"
	"github.com/ValentinKolb/kvapp/lib/db"
	"github.com/ValentinKolb/kvapp/lib/db/engines"
	"github.com/ValentinKolb/kvapp/lib/store"
	"github.com/ValentinKolb/kvapp/lib/store/lstore"
	"github.com/ValentinKolb/kvapp/lib/store/mstore"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the kvapp server",
		Long:    `Start the kvapp server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is KVAPP_<flag> (e.g. KVAPP_BIND_PORT=9090). The store itself is described by the config file (default cfg-kvapp.json): {"database": {"name": "default", "path": "db.kv"}}`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "config"
	ServeCmd.PersistentFlags().String(key, common.DefaultConfigPath, cmdUtil.WrapString("Path of the store config file (json, yaml or toml). It must contain a single \"database\" object with a name and a path"))

	key = "bind-addr"
	ServeCmd.PersistentFlags().String(key, "127.0.0.1", cmdUtil.WrapString("The IP address the HTTP server binds to"))

	key = "bind-port"
	ServeCmd.PersistentFlags().Int(key, 8080, cmdUtil.WrapString("The port the HTTP server binds to"))

	key = "metrics"
	ServeCmd.PersistentFlags().Bool(key, true, cmdUtil.WrapString("Expose request metrics on /metrics and store operation timers on /stats"))

	key = "max-value-bytes"
	ServeCmd.PersistentFlags().Int64(key, server.DefaultMaxValueBytes, cmdUtil.WrapString("Largest PUT body the server accepts, in bytes. Larger bodies are rejected with an internal server error"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables
// and loads the store config file
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	serveCmdConfig.ConfigPath = viper.GetString("config")
	serveCmdConfig.BindAddr = viper.GetString("bind-addr")
	serveCmdConfig.BindPort = viper.GetInt("bind-port")
	serveCmdConfig.Metrics = viper.GetBool("metrics")
	serveCmdConfig.LogLevel = viper.GetString("log-level")
	serveCmdConfig.MaxValueBytes = viper.GetInt64("max-value-bytes")

	if serveCmdConfig.BindPort < 0 || serveCmdConfig.BindPort > 65535 {
		return errors.Errorf("invalid bind port %d", serveCmdConfig.BindPort)
	}
	if serveCmdConfig.MaxValueBytes <= 0 {
		return errors.Errorf("invalid max value size %d", serveCmdConfig.MaxValueBytes)
	}

	if err := common.InitLoggers(serveCmdConfig.LogLevel); err != nil {
		return err
	}

	storeConfig, err := common.LoadStoreConfig(serveCmdConfig.ConfigPath)
	if err != nil {
		return err
	}
	serveCmdConfig.Store = storeConfig

	return nil
}

// run starts the kvapp server and blocks until SIGINT or SIGTERM
func run(_ *cobra.Command, _ []string) error {
	srv, err := NewServer(serveCmdConfig)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx, serveCmdConfig.Addr())
}

// NewServer opens the store described by config and creates the HTTP server for it.
// The store is owned by the returned server and closed when Serve returns.
func NewServer(config *common.ServerConfig) (*server.Server, error) {
	if config.Store == nil {
		return nil, errors.New("no store config loaded")
	}

	impl, err := config.Store.Implementation()
	if err != nil {
		return nil, err
	}

	// Function to create the database instance
	dbFactory := func() (db.KVDB, error) { return engines.Open(impl, config.Store.Path) }

	var st store.IStore
	st, err = lstore.NewLocalStore(dbFactory)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open store %q at %s", config.Store.Name, config.Store.Path)
	}

	info, err := st.GetDBInfo()
	if err != nil {
		_ = st.Close()
		return nil, errors.Wrapf(err, "cannot describe store %q", config.Store.Name)
	}
	server.Logger.Infof("Created kvapp server")
	server.Logger.Infof("%s", config.String())
	server.Logger.Infof("opened %s store %q at %s (%d bytes on disk)", info.DbType, config.Store.Name, info.Path, info.SizeBytes)

	opts := server.Options{
		Version:       common.Version,
		Metrics:       config.Metrics,
		MaxValueBytes: config.MaxValueBytes,
	}
	if config.Metrics {
		metered := mstore.NewMeteredStore(st, nil)
		opts.Stats = metered
		st = metered
	}

	return server.New(server.NewServerState(config.Store.Name, st), opts), nil
}
