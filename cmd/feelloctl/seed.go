package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/infblueocean/feello/internal/logging"
	"github.com/infblueocean/feello/internal/question"
	"github.com/infblueocean/feello/internal/remote"
)

// maxConcurrentAdds limits parallel inserts during seeding.
const maxConcurrentAdds = 4

func runSeed(args []string) error {
	fs := pflag.NewFlagSet("seed", pflag.ExitOnError)
	force := fs.Bool("force", false, "Import even when the store already has questions")
	_ = fs.Parse(args)

	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	existing, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 && !*force {
		fmt.Fprintf(os.Stderr, "store already has %d questions; use --force to import anyway\n", len(existing))
		return nil
	}

	n, err := seedStore(ctx, st, question.Seed())
	fmt.Fprintf(os.Stderr, "imported %d questions\n", n)
	return err
}

// seedStore adds every question as a new record. The first failure stops
// the remaining inserts.
func seedStore(ctx context.Context, st remote.Store, qs []question.Question) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentAdds)

	var added atomic.Int32
	for _, q := range qs {
		g.Go(func() error {
			d := question.Draft{Theme: q.Theme, Category: q.Category, Tagline: q.Tagline, Text: q.Text}
			id, err := st.Add(gctx, d)
			if err != nil {
				return err
			}
			added.Add(1)
			logging.Debug("seeded question", "seed_id", q.ID, "id", id)
			return nil
		})
	}
	err := g.Wait()
	return int(added.Load()), err
}
