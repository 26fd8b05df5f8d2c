// Command dynet trains, tests, and runs random-search scoring networks.
//
//	dynet [-config dynet.yaml] train
//	dynet test -state best.dynet -data test.TrainData
//	dynet predict -state best.dynet 255 0 12
//
// Training settings come from the config file and DYNET_* environment variables (see package
// config).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	dn "github.com/sharnoff/dynet"
	"github.com/sharnoff/dynet/config"
	"github.com/sharnoff/dynet/rng"
	"github.com/sharnoff/dynet/search"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-config file] <train | test | predict> [flags]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "YAML config file (optional)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := flag.Args()[1:]
	switch flag.Arg(0) {
	case "train":
		err = train(ctx, cfg, logger)
	case "test":
		err = test(cfg, logger, args)
	case "predict":
		err = predict(cfg, args)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func train(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	trainData, err := dn.LoadSamples(cfg.Data.Train)
	if err != nil {
		return err
	}

	var testData []*dn.Sample
	if cfg.Data.Test != "" {
		if testData, err = dn.LoadSamples(cfg.Data.Test); err != nil {
			return err
		}
	}

	var external rng.Seeder
	if cfg.Build.UseExternalEntropy {
		external = rng.RandomOrg{}
	}
	src, seed := search.NewSource(ctx, cfg.Seed, external, logger)

	logger.Info("loaded training data",
		zap.String("train", cfg.Data.Train), zap.Int("samples", len(trainData)),
		zap.Int("testSamples", len(testData)), zap.Strings("labels", dn.Labels(trainData)),
		zap.Int64("seed", seed))

	s, err := search.New(cfg.Search, cfg.Build, trainData, testData, src)
	if err != nil {
		return err
	}
	s.SetLogger(logger)

	if cfg.Metrics.Addr != "" {
		metrics := search.NewCollector(cfg.Metrics.Namespace)
		s.SetMetrics(metrics)

		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	out, err := s.Run(ctx)
	if out.Best != nil {
		if serr := out.Best.Save(cfg.Output.Path, cfg.Output.Overwrite); serr != nil {
			return serr
		}
		logger.Info("saved best network", zap.String("path", cfg.Output.Path),
			zap.Float64("accuracy", out.Accuracy), zap.String("run", out.RunID.String()))
	}

	if err != nil {
		return err
	}

	fmt.Printf("Best training accuracy: %.2f%%\n", 100*out.Accuracy)
	fmt.Printf("Test: %d correct, %d wrong, %d skipped (%.2f%%)\n",
		out.Final.Correct, out.Final.Wrong, out.Final.Skipped, 100*out.Final.Percent())
	return nil
}

func loadNetwork(cfg *config.Config, path string) (*dn.Network, error) {
	st, err := dn.LoadState(path)
	if err != nil {
		return nil, err
	}

	return dn.FromState(st, cfg.Build, rng.New(cfg.Seed))
}

func test(cfg *config.Config, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	statePath := fs.String("state", cfg.Output.Path, "saved network")
	dataPath := fs.String("data", cfg.Data.Test, "samples to test on")
	fs.Parse(args)

	if *dataPath == "" {
		*dataPath = cfg.Data.Train
	}

	res, err := runTest(cfg, logger, *statePath, *dataPath)
	if err != nil {
		return err
	}

	fmt.Printf("%d correct, %d wrong, %d skipped (%.2f%%) in %v\n",
		res.Correct, res.Wrong, res.Skipped, 100*res.Percent(), res.Elapsed)
	return nil
}

func runTest(cfg *config.Config, logger *zap.Logger, statePath, dataPath string) (dn.Result, error) {
	net, err := loadNetwork(cfg, statePath)
	if err != nil {
		return dn.Result{}, err
	}
	net.SetLogger(logger)

	samples, err := dn.LoadSamples(dataPath)
	if err != nil {
		return dn.Result{}, err
	}

	return net.Test(samples)
}

func predict(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	statePath := fs.String("state", cfg.Output.Path, "saved network")
	fs.Parse(args)

	raw, err := parseInputs(fs.Args())
	if err != nil {
		return err
	}

	out, err := predictFrom(cfg, *statePath, raw)
	if err != nil {
		return err
	}

	fmt.Printf("%s\t%g\n", out.Label, out.Score)
	return nil
}

// parseInputs reads each argument as a decimal byte
func parseInputs(args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, errors.New("predict needs at least one input byte")
	}

	raw := make([]byte, len(args))
	for i, a := range args {
		b, err := strconv.ParseUint(a, 10, 8)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't parse input %d", i)
		}
		raw[i] = byte(b)
	}

	return raw, nil
}

func predictFrom(cfg *config.Config, statePath string, raw []byte) (dn.Output, error) {
	net, err := loadNetwork(cfg, statePath)
	if err != nil {
		return dn.Output{}, err
	}

	if len(raw) > net.InputSize() {
		return dn.Output{}, dn.DimensionError{Nodes: net.Size(), Inputs: net.InputSize(), Widest: len(raw), Skipped: 1}
	}

	return net.Predict(raw), nil
}
