package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/researchaccelerator-hub/yt-comment-harvester/common"
	"github.com/researchaccelerator-hub/yt-comment-harvester/config"
	"github.com/researchaccelerator-hub/yt-comment-harvester/standalone"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "YTCOMMENTS"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		stop()
		log.Fatal().Err(err).Msg("ytcomments failed")
	}
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "ytcomments",
		Short:         "Collect target-language YouTube comments for a set of search topics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd.ErrOrStderr(), v.GetString("log_level"))
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML configuration file")
	flags.String("env-file", ".env", "dotenv file holding YOUTUBE_API_KEY")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")

	defaults := config.DefaultCollectorConfig()
	flags.String("video-ids-file", defaults.VideoIDsFile, "file holding one video id per line")
	flags.String("comments-file", defaults.CommentsFile, "JSON file collecting kept comments")
	flags.String("topic-set", defaults.TopicSet, "built-in topic set to search")
	flags.String("topics-file", "", "YAML file listing search topics")
	flags.StringSlice("topics", nil, "explicit search topics, overriding the topic set")
	flags.Int("per-topic-cap", defaults.PerTopicCap, "maximum video ids collected per topic")
	flags.Int("per-video-cap", defaults.PerVideoCap, "maximum comments kept per video")
	flags.String("target-language", defaults.TargetLanguage, "ISO 639-1 code of the language to keep")
	flags.Bool("report", defaults.Report, "print the language report after ingestion")
	flags.Bool("checkpoint", defaults.Checkpoint, "save the comments file after every video")
	flags.Bool("skip-ingested", defaults.SkipIngested, "skip videos already present in the comments file")
	flags.Bool("fail-fast", defaults.FailFast, "abort discovery on the first failed search")
	flags.Float64("requests-per-second", defaults.RequestsPerSecond, "API request rate limit, 0 for unlimited")
	flags.Duration("request-timeout", defaults.RequestTimeout, "timeout of a single API request")

	bindFlags(v, flags)

	root.AddCommand(
		newStageCmd(v, "discover", "Search topics and write the video id file", func(ctx context.Context, r *standalone.Runner) error {
			_, err := r.Discover(ctx)
			return err
		}),
		newStageCmd(v, "ingest", "Collect comments for the video id file", func(ctx context.Context, r *standalone.Runner) error {
			_, err := r.Ingest(ctx)
			return err
		}),
		newStageCmd(v, "run", "Discover video ids, then ingest their comments", func(ctx context.Context, r *standalone.Runner) error {
			_, err := r.Run(ctx)
			return err
		}),
		newTopicsCmd(),
	)
	return root
}

// bindFlags maps every flag onto the viper key of the same name with dashes
// replaced by underscores.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
}

func newStageCmd(v *viper.Viper, use, short string, stage func(context.Context, *standalone.Runner) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				if errors.Is(err, config.ErrMissingAPIKey) {
					log.Fatal().Err(err).Msg("Missing API credentials")
				}
				return fmt.Errorf("invalid configuration: %w", err)
			}

			ctx := cmd.Context()
			deps, cleanup, err := standalone.Setup(ctx, cfg, cmd.OutOrStdout())
			defer cleanup()
			if err != nil {
				return err
			}

			runner := standalone.NewRunner(cfg, deps, common.GenerateRunID())
			log.Info().Str("run_id", runner.RunID()).Str("stage", use).Msg("Starting")

			err = stage(ctx, runner)
			runner.PushMetrics()
			return err
		},
	}
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List the built-in topic sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, name := range config.TopicSetNames() {
				fmt.Fprintf(out, "%s:\n", name)
				for _, topic := range config.TopicSets[name] {
					fmt.Fprintf(out, "  - %s\n", topic)
				}
			}
			return nil
		},
	}
}

// loadConfig resolves the configuration. Precedence, highest first: flags,
// environment, YAML config file, dotenv file, defaults.
func loadConfig(v *viper.Viper) (*config.CollectorConfig, error) {
	setDefaults(v, config.DefaultCollectorConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("youtube_api_key", "YOUTUBE_API_KEY", envPrefix+"_YOUTUBE_API_KEY")

	if envFile := v.GetString("env_file"); envFile != "" && common.FileExists(envFile) {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
		log.Debug().Str("file", envFile).Msg("Loaded env file")
	}

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
		log.Debug().Str("file", cfgFile).Msg("Loaded config file")
	}

	cfg := &config.CollectorConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *config.CollectorConfig) {
	v.SetDefault("youtube_api_key", "")
	v.SetDefault("video_ids_file", d.VideoIDsFile)
	v.SetDefault("comments_file", d.CommentsFile)
	v.SetDefault("topic_set", d.TopicSet)
	v.SetDefault("topics_file", d.TopicsFile)
	v.SetDefault("topics", d.Topics)
	v.SetDefault("per_topic_cap", d.PerTopicCap)
	v.SetDefault("search_page_size", d.SearchPageSize)
	v.SetDefault("fail_fast", d.FailFast)
	v.SetDefault("per_video_cap", d.PerVideoCap)
	v.SetDefault("comment_page_size", d.CommentPageSize)
	v.SetDefault("target_language", d.TargetLanguage)
	v.SetDefault("report", d.Report)
	v.SetDefault("checkpoint", d.Checkpoint)
	v.SetDefault("skip_ingested", d.SkipIngested)
	v.SetDefault("requests_per_second", d.RequestsPerSecond)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("mongo_uri", d.MongoURI)
	v.SetDefault("mongo_database", d.MongoDatabase)
	v.SetDefault("mongo_collection", d.MongoCollection)
	v.SetDefault("sqlite_path", d.SQLitePath)
	v.SetDefault("nats_url", d.NATSUrl)
	v.SetDefault("nats_subject_prefix", d.NATSSubjectPrefix)
	v.SetDefault("pushgateway_url", d.PushgatewayURL)
	v.SetDefault("metrics_job", d.MetricsJob)
}

func setupLogging(w io.Writer, level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	return nil
}
