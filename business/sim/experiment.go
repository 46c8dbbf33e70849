package sim

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"recsim/business/agent"
	"recsim/business/analysis"
	"recsim/business/matrices"
	"recsim/business/recommend"
	"recsim/business/similarity"
	"recsim/domain"
	"recsim/pkg/metrics"
)

// Config carries every knob one experiment batch needs. Strategy slots left
// nil fall back to the documented defaults.
type Config struct {
	MatrixSize  int
	Ticks       int
	Experiments int
	Workers     int

	SearchPrice    float64
	ConsumePrice   float64
	StartingBudget float64

	WellServedThreshold float64
	TopN                int
	NewUsers            int

	Dist matrices.DistParams

	// Neutral is the rating scale midpoint; reviews above it are positive.
	Neutral float64

	Seed int64

	Metric similarity.Metric
	Decide agent.ThresholdFunc
	Rate   agent.RatingFunc

	Progress ProgressFunc
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Metric == nil {
		c.Metric = similarity.SharedReactions(c.Neutral)
	}
	if c.Decide == nil {
		c.Decide = agent.MeanThreshold(c.Dist.Mean)
	}
	if c.Rate == nil {
		c.Rate = agent.ThreeLevelRating(c.Dist.Mean, c.Dist.Std)
	}
	return c
}

// Runner fans independent runs out over a fixed worker pool. Runs share no
// mutable state, so the only coordination is the jobs/results channels.
type Runner struct {
	cfg Config
}

func NewRunner(cfg Config) *Runner {
	return &Runner{cfg: cfg.withDefaults()}
}

// RunAll executes every configured run and returns the reports ordered by
// run index. A failed run yields a failed report; siblings are unaffected.
func (r *Runner) RunAll(ctx context.Context) []domain.RunReport {
	jobs := make(chan int, r.cfg.Experiments)
	results := make(chan domain.RunReport, r.cfg.Experiments)

	var wg sync.WaitGroup
	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for run := range jobs {
				results <- r.runOne(ctx, run)
			}
		}()
	}

	for run := 0; run < r.cfg.Experiments; run++ {
		jobs <- run
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	reports := make([]domain.RunReport, 0, r.cfg.Experiments)
	for report := range results {
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].Run < reports[j].Run })
	return reports
}

// runOne owns one full run: its own store, population, rng and analysis.
func (r *Runner) runOne(ctx context.Context, run int) domain.RunReport {
	cfg := r.cfg
	start := time.Now()

	seed := cfg.Seed + int64(run)
	rng := rand.New(rand.NewSource(seed))

	report := domain.RunReport{
		RunID: uuid.NewString(),
		Run:   run,
		Seed:  seed,
	}

	store := matrices.NewStore(cfg.MatrixSize, cfg.Dist, rng)

	users := make([]*domain.User, cfg.MatrixSize)
	for i := range users {
		users[i] = domain.NewUser(i, cfg.StartingBudget)
	}

	similar := similarity.NewService(cfg.Metric)
	policy := recommend.NewService(cfg.Neutral)
	agents := agent.NewService(
		store, similar, policy, cfg.Decide, cfg.Rate,
		cfg.SearchPrice, cfg.ConsumePrice,
	)

	scheduler := NewScheduler(agents, users, cfg.Ticks, cfg.StartingBudget, run, cfg.Progress)
	if err := scheduler.Run(ctx, rng); err != nil {
		metrics.RunsTotal.WithLabelValues(domain.RunStatusFailed).Inc()
		report.Failed = true
		report.FailMsg = err.Error()
		return report
	}

	report.Metrics = analysis.Established(users, store, analysis.Params{
		TopN:       cfg.TopN,
		WellServed: cfg.WellServedThreshold,
	})

	for name, m := range analysis.Reference(
		store, cfg.Ticks, cfg.StartingBudget, cfg.SearchPrice, cfg.ConsumePrice,
		cfg.Rate, cfg.TopN, rng,
	) {
		report.Metrics[name] = m
	}

	cold, err := analysis.ColdStart(store, analysis.ColdStartParams{
		NewUsers:       cfg.NewUsers,
		Ticks:          cfg.Ticks,
		TopN:           cfg.TopN,
		StartingBudget: cfg.StartingBudget,
		SearchPrice:    cfg.SearchPrice,
		ConsumePrice:   cfg.ConsumePrice,
		Similar:        similar,
		Policy:         policy,
		Decide:         cfg.Decide,
		Rate:           cfg.Rate,
	}, rng)
	if err != nil {
		metrics.RunsTotal.WithLabelValues(domain.RunStatusFailed).Inc()
		report.Failed = true
		report.FailMsg = err.Error()
		return report
	}
	for name, m := range cold {
		report.Metrics[name] = m
	}

	report.ReviewTable = store.Reviews().DenseTable(math.NaN())
	report.TrueUtilityTable = store.UtilityMatrix().TrueTable()
	report.ExpectedUtilTable = store.UtilityMatrix().ExpectedTable()

	report.Users = make([]domain.UserLine, len(users))
	for i, u := range users {
		sum := 0.0
		for _, score := range store.ReviewRow(i) {
			sum += score
		}
		report.Users[i] = domain.UserLine{
			Index:          i,
			Scores:         report.ReviewTable[i],
			ReviewSum:      sum,
			ActualUtility:  u.ActualUtility,
			OptimalUtility: u.OptimalUtility(store.UtilityMatrix().Row(i)),
		}
	}

	metrics.RunsTotal.WithLabelValues(domain.RunStatusCompleted).Inc()
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	return report
}
