package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"tabprep/pkg/frame"
	"tabprep/pkg/stats"
)

// Options tune the rendered histograms.
type Options struct {
	Bins   int       // number of bins, default 20
	Width  vg.Length // default 4 inch
	Height vg.Length // default 4 inch
	Logger *slog.Logger
}

func (o *Options) defaults() {
	if o.Bins <= 0 {
		o.Bins = 20
	}
	if o.Width == 0 {
		o.Width = 4 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 4 * vg.Inch
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Histograms writes one PNG histogram per named column into dir and returns
// the written paths. Columns holding strings or no observed value are skipped.
// With no names every column is considered.
func Histograms(t *frame.Table, names []string, dir string, opts Options) ([]string, error) {
	opts.defaults()
	if len(names) == 0 {
		names = t.Names()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return written, fmt.Errorf("%w: %q", frame.ErrNoColumn, name)
		}
		xs, err := c.Floats()
		if err != nil {
			opts.Logger.Info("skipping non-numeric column", "column", name)
			continue
		}
		obs := stats.Observed(xs)
		if len(obs) == 0 {
			opts.Logger.Info("skipping empty column", "column", name)
			continue
		}

		p := plot.New()
		p.Title.Text = name
		p.X.Label.Text = "value"
		p.Y.Label.Text = "count"

		h, err := plotter.NewHist(plotter.Values(obs), opts.Bins)
		if err != nil {
			return written, fmt.Errorf("histogram of %q: %w", name, err)
		}
		p.Add(h)

		filename := filepath.Join(dir, fileName(name)+".png")
		if err := p.Save(opts.Width, opts.Height, filename); err != nil {
			return written, fmt.Errorf("saving histogram of %q: %w", name, err)
		}
		written = append(written, filename)
	}
	return written, nil
}

func fileName(column string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, column)
}
