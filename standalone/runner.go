// Package standalone wires the pipeline stages to their collaborators and runs
// them in a single process.
package standalone

import (
	"context"
	"fmt"
	"io"

	"github.com/researchaccelerator-hub/yt-comment-harvester/client"
	"github.com/researchaccelerator-hub/yt-comment-harvester/common"
	"github.com/researchaccelerator-hub/yt-comment-harvester/config"
	"github.com/researchaccelerator-hub/yt-comment-harvester/crawl"
	"github.com/researchaccelerator-hub/yt-comment-harvester/distributed"
	"github.com/researchaccelerator-hub/yt-comment-harvester/language"
	"github.com/researchaccelerator-hub/yt-comment-harvester/metrics"
	"github.com/researchaccelerator-hub/yt-comment-harvester/model"
	youtubemodel "github.com/researchaccelerator-hub/yt-comment-harvester/model/youtube"
	"github.com/researchaccelerator-hub/yt-comment-harvester/state"
	"github.com/rs/zerolog/log"
)

// Deps are the collaborators a Runner uses.
type Deps struct {
	Client    youtubemodel.YouTubeClient
	Detector  language.Detector
	Store     state.CommentStore
	Sinks     []state.RecordSink
	Publisher distributed.Publisher
	Out       io.Writer // destination of the language report and notices
}

// Setup connects every collaborator the configuration asks for. The returned
// cleanup function releases them and is safe to call when setup failed halfway.
func Setup(ctx context.Context, cfg *config.CollectorConfig, out io.Writer) (*Deps, func(), error) {
	deps := &Deps{
		Detector:  language.NewWhatlangDetector(),
		Store:     state.NewCommentStore(cfg),
		Publisher: distributed.NoopPublisher{},
		Out:       out,
	}

	cleanup := func() {
		state.CloseSinks(context.Background(), deps.Sinks)
		if err := deps.Publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close event publisher")
		}
		if deps.Client != nil {
			_ = deps.Client.Disconnect(context.Background())
		}
	}

	yt, err := client.NewConnectedClient(ctx, cfg)
	if err != nil {
		return nil, cleanup, err
	}
	deps.Client = yt

	sinks, err := state.NewSinks(ctx, cfg)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to open mirrors: %w", err)
	}
	deps.Sinks = sinks

	pub, err := distributed.NewPublisher(cfg.NATSUrl, cfg.NATSSubjectPrefix)
	if err != nil {
		return nil, cleanup, err
	}
	deps.Publisher = pub

	return deps, cleanup, nil
}

// IngestResult describes a finished ingestion run.
type IngestResult struct {
	Summary      crawl.IngestSummary
	TotalRecords int
	Tally        *language.Tally
}

// Runner executes the pipeline stages for one run.
type Runner struct {
	cfg   *config.CollectorConfig
	deps  *Deps
	runID string
}

// NewRunner creates a runner. An empty runID is replaced by a timestamp id.
func NewRunner(cfg *config.CollectorConfig, deps *Deps, runID string) *Runner {
	if runID == "" {
		runID = common.GenerateRunID()
	}
	if deps.Publisher == nil {
		deps.Publisher = distributed.NoopPublisher{}
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	return &Runner{cfg: cfg, deps: deps, runID: runID}
}

// RunID returns the identifier stamped on this run's events.
func (r *Runner) RunID() string { return r.runID }

// Discover runs identifier discovery and writes the identifier file.
func (r *Runner) Discover(ctx context.Context) (*crawl.DiscoveryResult, error) {
	topics, err := r.cfg.ResolveTopics()
	if err != nil {
		return nil, err
	}
	log.Info().Str("run_id", r.runID).Int("topics", len(topics)).Msg("Starting discovery")

	d := crawl.NewDiscoverer(r.deps.Client, int64(r.cfg.SearchPageSize), r.cfg.FailFast)
	res, err := d.Run(ctx, topics, r.cfg.PerTopicCap, r.cfg.VideoIDsFile)
	if err != nil {
		return nil, err
	}

	ev := distributed.NewDiscoveryCompleted(r.runID, len(res.Topics), res.Failed(), len(res.IDs), r.cfg.VideoIDsFile)
	r.publish(ctx, distributed.EventDiscoveryCompleted, ev)
	return res, nil
}

// Ingest reads the identifier file, collects target-language comments for
// every identifier and saves the collection. It returns nil without doing any
// work when the identifier file is missing or empty. The final save is
// attempted even when ctx was cancelled mid-run.
func (r *Runner) Ingest(ctx context.Context) (*IngestResult, error) {
	ids, err := r.readVideoIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		fmt.Fprintf(r.deps.Out, "No video IDs found in %s. Run discovery first.\n", r.cfg.VideoIDsFile)
		return nil, nil
	}
	log.Info().Str("run_id", r.runID).Int("count", len(ids)).Msg("Starting ingestion")

	existing, err := r.deps.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing comments: %w", err)
	}

	tally := language.NewTally()
	classifier := language.NewClassifier(r.deps.Detector, r.cfg.TargetLanguage)
	ingester := crawl.NewIngester(r.deps.Client, classifier, crawl.IngestOptions{
		PageSize:     int64(r.cfg.CommentPageSize),
		SkipIngested: r.cfg.SkipIngested,
		Hooks:        r.videoHooks(),
	})

	all, summary := ingester.IngestAll(ctx, ids, r.cfg.PerVideoCap, existing, tally)

	saveErr := r.deps.Store.Save(context.WithoutCancel(ctx), all)
	if saveErr != nil {
		log.Error().Err(saveErr).Msg("Failed to save comments")
	}

	if r.cfg.Report {
		if err := tally.WriteReport(r.deps.Out); err != nil {
			log.Warn().Err(err).Msg("Failed to write language report")
		}
	}

	ev := distributed.NewIngestCompleted(r.runID, summary.Videos, summary.Failed, summary.Skipped, summary.Kept, len(all), r.cfg.CommentsFile)
	r.publish(context.WithoutCancel(ctx), distributed.EventIngestCompleted, ev)

	log.Info().
		Int("videos", summary.Videos).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Int("kept", summary.Kept).
		Int("total", len(all)).
		Msg("Ingestion finished")

	return &IngestResult{Summary: summary, TotalRecords: len(all), Tally: tally}, saveErr
}

// Run executes discovery then ingestion. The stages only share the identifier file.
func (r *Runner) Run(ctx context.Context) (*IngestResult, error) {
	if _, err := r.Discover(ctx); err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}
	return r.Ingest(ctx)
}

// PushMetrics sends the run's metrics to the configured Pushgateway, if any.
func (r *Runner) PushMetrics() {
	if r.cfg.PushgatewayURL == "" {
		return
	}
	if err := metrics.Push(r.cfg.PushgatewayURL, r.cfg.MetricsJob); err != nil {
		log.Warn().Err(err).Msg("Metrics push failed")
	}
}

func (r *Runner) readVideoIDs() ([]string, error) {
	if !common.FileExists(r.cfg.VideoIDsFile) {
		log.Warn().Str("file", r.cfg.VideoIDsFile).Msg("Video id file does not exist")
		return nil, nil
	}
	ids, err := common.ReadLines(r.cfg.VideoIDsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read video ids: %w", err)
	}
	return ids, nil
}

func (r *Runner) videoHooks() []crawl.VideoHook {
	hooks := []crawl.VideoHook{r.mirrorHook}
	if r.cfg.Checkpoint {
		hooks = append(hooks, r.checkpointHook)
	}
	return append(hooks, r.eventHook)
}

func (r *Runner) mirrorHook(ctx context.Context, res crawl.VideoResult, _ []model.CommentRecord) error {
	if res.Skipped || len(r.deps.Sinks) == 0 {
		return nil
	}
	return state.WriteAll(ctx, r.deps.Sinks, res.VideoID, res.Records)
}

func (r *Runner) checkpointHook(ctx context.Context, res crawl.VideoResult, all []model.CommentRecord) error {
	if res.Skipped {
		return nil
	}
	if err := r.deps.Store.Save(ctx, all); err != nil {
		return fmt.Errorf("checkpoint after %s: %w", res.VideoID, err)
	}
	return nil
}

func (r *Runner) eventHook(ctx context.Context, res crawl.VideoResult, _ []model.CommentRecord) error {
	ev := distributed.NewVideoIngested(r.runID, res.VideoID, len(res.Records), res.Pages, res.Skipped, res.Reason)
	return r.deps.Publisher.Publish(ctx, distributed.EventVideoIngested, ev)
}

// publish sends a run-level event. Publishing failures never fail the run.
func (r *Runner) publish(ctx context.Context, eventType string, event interface{}) {
	if err := r.deps.Publisher.Publish(ctx, eventType, event); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}
