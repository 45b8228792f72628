package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/xela07ax/citizen-queue-portal/internal/engine"
	"github.com/xela07ax/citizen-queue-portal/internal/infra"
)

const timeLayout = "2006-01-02T15:04"

var errBadFormat = errors.New("format must be text or json")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "predict: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	var (
		arrival = fs.Float64("arrival", 18, "arrivals per hour")
		service = fs.Float64("service", 20, "customers served per hour")
		queue   = fs.Int("queue", 12, "people waiting right now")
		hours   = fs.String("hours", "08:00-15:00", "working hours HH:MM-HH:MM")
		n       = fs.Int("n", 1000, "number of Monte-Carlo scenarios")
		workers = fs.Int("workers", 0, "parallel workers (0 = number of CPUs)")
		format  = fs.String("format", "text", "output format: text or json")
		at      = fs.String("at", "", "pretend the current time is "+timeLayout)
		verbose = fs.Bool("v", false, "debug logging to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *format != "text" && *format != "json" {
		return errBadFormat
	}

	level := "error"
	if *verbose {
		level = "debug"
	}
	logger, err := infra.NewLogger(infra.LoggerConfig{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	now := time.Now
	if *at != "" {
		fixed, err := time.ParseInLocation(timeLayout, *at, time.Local)
		if err != nil {
			return fmt.Errorf("bad -at: %w", err)
		}
		now = func() time.Time { return fixed }
	}

	sim := engine.NewSimulator(engine.NewPoolExecutor(*workers), nil, nil, logger)
	predictor := engine.NewPredictor(sim, logger, engine.WithClock(now))

	rate := engine.ServiceRate{ArrivalRatePerHour: *arrival, ServiceRatePerHour: *service, CurrentQueue: *queue}
	rec, err := predictor.PredictBestArrivalTime(ctx, rate, *hours, *n)
	if err != nil {
		return err
	}

	if *format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	return writeReport(stdout, rec, *n, logger)
}

func writeReport(w io.Writer, rec engine.Recommendation, n int, logger *zap.Logger) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Recommended arrival:\t%s\n", rec.RecommendedTime.Format("02.01.2006 15:04"))
	if rec.ClosedToday {
		fmt.Fprintf(tw, "Note:\t%s\n", rec.Reason)
	}
	fmt.Fprintf(tw, "Average wait:\t%d min\n", rec.EstimatedWaitAvg)
	fmt.Fprintf(tw, "Wait range:\t%d-%d min\n", rec.EstimatedWaitRange[0], rec.EstimatedWaitRange[1])
	fmt.Fprintf(tw, "50%% wait at most:\t%d min\n", rec.Percentile50)
	fmt.Fprintf(tw, "95%% wait at most:\t%d min\n", rec.Percentile95)
	fmt.Fprintf(tw, "Expected queue:\t%d people\n", rec.QueueSizeAvg)
	fmt.Fprintf(tw, "Confidence:\t%d%%\n", rec.Confidence)
	fmt.Fprintf(tw, "Scenarios:\t%d\n", n)

	if len(rec.Hours) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Hour\tavg\tp50\tp95\tqueue")
		for _, h := range rec.Hours {
			fmt.Fprintf(tw, "%02d:00\t%.1f\t%.0f\t%.0f\t%.1f\n", h.Hour, h.AvgWait, h.Percentile50, h.Percentile95, h.AvgQueue)
		}
	}

	if err := tw.Flush(); err != nil {
		logger.Error("failed to write report", zap.Error(err))
		return err
	}
	return nil
}
