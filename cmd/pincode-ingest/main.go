// Command pincode-ingest builds the deliverable-pincode index consumed by
// the storefront server. Input is one or more gzip-compressed shard files of
// newline-separated pincodes; output is a single serialized bloom filter.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/agrikart/agrikart/internal/domain/shipping"
)

func main() {
	var (
		dataDir  string
		outPath  string
		capacity uint
		fpr      float64
	)

	flag.StringVar(&dataDir, "data-dir", "data/pincodes", "directory containing *.gz pincode shard files")
	flag.StringVar(&outPath, "out", "data/pincodes.idx", "output path for the serialized index")
	flag.UintVar(&capacity, "capacity", shipping.DefaultCapacity, "expected number of distinct pincodes")
	flag.Float64Var(&fpr, "fpr", shipping.DefaultFPR, "acceptable false positive rate")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, outPath, capacity, fpr); err != nil {
		slog.Error("pincode ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("pincode ingest completed", slog.String("out", outPath))
}

func run(ctx context.Context, dataDir, outPath string, capacity uint, fpr float64) error {
	shards, err := filepath.Glob(filepath.Join(dataDir, "*.gz"))
	if err != nil {
		return errors.Wrap(err, "glob shards")
	}
	if len(shards) == 0 {
		return errors.Errorf("no shard files found in %s", dataDir)
	}
	slog.Info("building index", slog.Int("shards", len(shards)))

	// Scan shards in parallel, one index per shard, then merge. All shard
	// indexes share parameters so Merge never fails on shape.
	indexes := make([]*shipping.Index, len(shards))
	g, ctx := errgroup.WithContext(ctx)
	for i, shard := range shards {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			idx := shipping.NewIndex(capacity, fpr)
			added, err := idx.ScanShard(shard)
			if err != nil {
				return err
			}
			slog.Info("shard scanned", slog.String("file", shard), slog.Int("pincodes", added))
			indexes[i] = idx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	merged := indexes[0]
	for _, idx := range indexes[1:] {
		if err := merged.Merge(idx); err != nil {
			return errors.Wrap(err, "merge shard indexes")
		}
	}

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Wrapf(err, "create %s", outPath)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if _, err := merged.WriteTo(w); err != nil {
		return errors.Wrap(err, "write index")
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "flush index")
	}
	return out.Sync()
}
