package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/yuvrajy/SomethingFishy/internal/model"
)

type serverConfig struct {
	bind           string
	port           int
	storageType    string
	redisURL       string
	questionsPath  string
	sessionTimeout time.Duration
	winThreshold   int
	roundGap       time.Duration
	verbose        bool
}

func (c *serverConfig) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.storageType == "redis" && c.redisURL == "" {
		return fmt.Errorf("--redis-url required when --storage is redis")
	}
	if c.winThreshold < 1 {
		return fmt.Errorf("invalid win threshold (must be at least 1): %d", c.winThreshold)
	}
	return nil
}

func newCmd(cfg *serverConfig) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("FISHY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "server",
		Short:         "Run the SomethingFishy game server",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "", "address to bind to (env: FISHY_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: FISHY_PORT)")
	fs.StringVar(&cfg.storageType, "storage", "memory", "storage backend: memory or redis (env: FISHY_STORAGE)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis connection URL (env: FISHY_REDIS_URL)")
	fs.StringVar(&cfg.questionsPath, "questions", "data/questions.txt", "path to the question bank file (env: FISHY_QUESTIONS)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 24*time.Hour, "time before issued session tokens expire (env: FISHY_SESSION_TIMEOUT)")
	fs.IntVar(&cfg.winThreshold, "win-threshold", model.DefaultWinThreshold, "score needed to end the game (env: FISHY_WIN_THRESHOLD)")
	fs.DurationVar(&cfg.roundGap, "round-gap", model.DefaultRoundGap, "pause between round-end feedback and the next round (env: FISHY_ROUND_GAP)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging (env: FISHY_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SilenceUsage = true

	return cmd
}

func main() {
	cfg := &serverConfig{}

	if err := newCmd(cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
