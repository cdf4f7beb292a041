// Command feed browses the product catalog from the terminal: the feed with
// prime badges and computed prices, the saved list, product details and the
// recipe favorites.
package main

import (
	"context"
	"os"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	appkg "github.com/xenking/catalog-feed/internal/app"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		e := &env{
			lg: lg,
			opts: appkg.Options{
				Logger:         lg,
				TracerProvider: m.TracerProvider(),
				MeterProvider:  m.MeterProvider(),
			},
			stdin:  os.Stdin,
			stdout: os.Stdout,
			stderr: os.Stderr,
		}
		return run(ctx, e, os.Args[1:])
	})
}
