// Command clickup is a small command line client for the ClickUp API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Sternrassler/clickup-client/pkg/cache"
	"github.com/Sternrassler/clickup-client/pkg/clickup"
	"github.com/Sternrassler/clickup-client/pkg/client"
	"github.com/Sternrassler/clickup-client/pkg/logging"
)

const envPrefix = "CLICKUP"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app carries what subcommands share: settings, the lazily built API and
// the Redis client backing its cache.
type app struct {
	v     *viper.Viper
	api   *clickup.API
	redis *redis.Client
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	return (&app{v: v}).command()
}

func (a *app) command() *cobra.Command {
	v := a.v
	var cfgFile string

	root := &cobra.Command{
		Use:           "clickup",
		Short:         "Query the ClickUp API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(cfgFile); err != nil {
				return err
			}
			logCfg := logging.Config{
				Level:  logging.LogLevel(v.GetString("log_level")),
				Pretty: v.GetBool("log_pretty"),
				Output: cmd.ErrOrStderr(),
			}
			if err := logCfg.Validate(); err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			logging.Setup(logCfg)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.clickup.yaml)")
	flags.String("token", "", "personal API token (env CLICKUP_TOKEN)")
	flags.String("base-url", client.DefaultBaseURL, "API root URL")
	flags.StringP("output", "o", "table", "output format: table or json")
	flags.String("log-level", "warn", "log level: debug, info, warn, error, off")
	flags.Bool("log-pretty", true, "human readable logs")
	flags.Int("max-attempts", client.DefaultRetryConfig().MaxAttempts, "attempts per call, including the first")
	flags.Bool("retry", true, "retry rate limited calls")
	flags.Float64("rate", 0, "client-side request pacing in requests per second (0 = off)")
	flags.String("redis-addr", "", "Redis address for the GET response cache (empty = off)")
	flags.Duration("cache-ttl", cache.DefaultTTL, "lifetime of cached GET responses")
	flags.Bool("stats", false, "print client metrics to stderr when done")

	for _, name := range []string{"token", "base-url", "output", "log-level", "log-pretty", "max-attempts", "retry", "rate", "redis-addr", "cache-ttl", "stats"} {
		_ = v.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}

	root.AddCommand(
		newUserCmd(a),
		newWorkspacesCmd(a),
		newSpacesCmd(a),
		newTasksCmd(a),
		newDocsCmd(a),
		newCacheCmd(a),
	)
	a.releaseAfter(root)
	return root
}

// releaseAfter wraps every runnable command so stats are printed on success
// and the client is released whether or not the command failed.
func (a *app) releaseAfter(cmd *cobra.Command) {
	for _, sub := range cmd.Commands() {
		a.releaseAfter(sub)
	}
	run := cmd.RunE
	if run == nil {
		return
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err == nil && a.api != nil && a.v.GetBool("stats") {
			err = printStats(cmd.ErrOrStderr(), a.api.Client())
		}
		return errors.Join(err, a.close())
	}
}

// close releases the HTTP connections and the Redis client.
func (a *app) close() error {
	var errs []error
	if a.api != nil {
		errs = append(errs, a.api.Client().Close())
		a.api = nil
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
		a.redis = nil
	}
	return errors.Join(errs...)
}

// loadConfig reads the optional YAML file and the CLICKUP_* environment.
func (a *app) loadConfig(cfgFile string) error {
	v := a.v
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigName(".clickup")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// clientConfig maps settings onto the dispatcher configuration.
func (a *app) clientConfig() client.Config {
	v := a.v
	cfg := client.DefaultConfig(v.GetString("token"))
	cfg.BaseURL = v.GetString("base_url")
	cfg.Retry.MaxAttempts = v.GetInt("max_attempts")
	cfg.Retry.RetryEnabled = v.GetBool("retry")
	cfg.RateLimit.RequestsPerSecond = v.GetFloat64("rate")

	logger := logging.NewLogger("cli")
	cfg.Logger = &logger

	if addr := v.GetString("redis_addr"); addr != "" {
		if a.redis == nil {
			a.redis = redis.NewClient(&redis.Options{Addr: addr})
		}
		cfg.Redis = a.redis
		cfg.CacheTTL = v.GetDuration("cache_ttl")
	}
	return cfg
}

// API builds the client on first use.
func (a *app) API() (*clickup.API, error) {
	if a.api != nil {
		return a.api, nil
	}
	c, err := client.New(a.clientConfig())
	if err != nil {
		return nil, errors.Join(err, a.close())
	}
	a.api = clickup.NewAPI(c)
	return a.api, nil
}

func (a *app) format() (format, error) {
	return parseFormat(a.v.GetString("output"))
}

// commandTimeout bounds a single command, including every retry.
const commandTimeout = 2 * time.Minute
