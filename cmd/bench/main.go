package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/loomui/loom/property"
)

const (
	itersKey   = "iters"
	repeatsKey = "repeats"
)

func main() {
	cmd := &cli.Command{
		Name:  "bench",
		Usage: "Benchmark the property graph",
		Commands: []*cli.Command{
			{
				Name:  "propagate",
				Usage: "Per-write latency across width x depth binding chains",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  itersKey,
						Usage: "writes per configuration",
						Value: 100,
					},
				},
				Action: benchPropagate,
			},
			{
				Name:  "layers",
				Usage: "Update throughput across layered dynamic graphs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  repeatsKey,
						Usage: "runs per configuration, best one wins",
						Value: 5,
					},
				},
				Action: benchLayers,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

func benchPropagate(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Int(itersKey))

	tbl := table.NewWriter()
	tbl.SetTitle("Property Propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			g := property.NewGraph(nil)
			src := property.New(g, 1)

			leaves := make([]*property.Property[int], 0, w)
			for i := 0; i < w; i++ {
				last := src
				for j := 0; j < h; j++ {
					prev := last
					next := property.New(g, 0)
					next.SetBinding(func() int { return prev.Get() + 1 })
					last = next
				}
				leaves = append(leaves, last)
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Set(src.GetUntracked() + 1)
				for _, leaf := range leaves {
					leaf.Get()
				}
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	tbl.Render()
	return nil
}

type layersTestConfig struct {
	name           string  // friendly name for the test, should be unique
	width          int     // width of dependency graph to construct
	totalLayers    int     // depth of dependency graph to construct
	staticFraction float64 // fraction of bindings that read a fixed source set
	nSources       int     // sources read by each binding
	readFraction   float64 // fraction of the last layer read back per iteration
	iterations     int     // write/read cycles per run
}

func benchLayers(ctx context.Context, cmd *cli.Command) error {
	log.Print("Starting layered graph benchmark, please wait...")
	defer log.Print("Finished layered graph benchmark")

	cfgs := []layersTestConfig{
		{
			name:           "simple component",
			width:          10,
			staticFraction: 1,
			nSources:       2,
			totalLayers:    5,
			readFraction:   0.2,
			iterations:     600000,
		},
		{
			name:           "dynamic component",
			width:          10,
			totalLayers:    10,
			staticFraction: 0.75,
			nSources:       6,
			readFraction:   0.2,
			iterations:     15000,
		},
		{
			name:           "large web app",
			width:          1000,
			totalLayers:    12,
			staticFraction: 0.95,
			nSources:       4,
			readFraction:   1,
			iterations:     3000,
		},
		{
			name:           "deep",
			width:          5,
			totalLayers:    500,
			staticFraction: 1,
			nSources:       3,
			readFraction:   1,
			iterations:     500,
		},
	}

	repeats := int(cmd.Int(repeatsKey))

	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{
		"size", "nSources", "read%", "static%",
		"nTimes", "test", "time", "updateRate", "title",
	})

	for _, cfg := range cfgs {
		log.Printf("Running '%s' config", cfg.name)
		counter := new(int64)
		bg := makeLayeredGraph(cfg, counter)

		runOnce := func() int {
			return runLayeredGraph(bg, cfg)
		}
		// warm up
		runOnce()

		best := time.Hour
		var bestCount int64
		for i := 0; i < repeats; i++ {
			log.Printf("Running '%s' config, iteration %d/%d", cfg.name, i+1, repeats)
			*counter = 0
			start := time.Now()
			runOnce()
			duration := time.Since(start)
			if duration < best {
				best = duration
				bestCount = *counter
			}
		}

		makeTitle := func() string {
			sb := strings.Builder{}
			sb.WriteString(fmt.Sprintf("%dx%d %d sources", cfg.width, cfg.totalLayers, cfg.nSources))
			if cfg.staticFraction < 1 {
				sb.WriteString(" dynamic")
			}
			if cfg.readFraction < 1 {
				sb.WriteString(fmt.Sprintf(" read %0.2f%%", 100*cfg.readFraction))
			}
			return sb.String()
		}

		updateRate := float64(bestCount) / (float64(best) / float64(time.Millisecond))

		tw.Append([]string{
			fmt.Sprintf("%dx%d", cfg.width, cfg.totalLayers),
			fmt.Sprint(cfg.nSources),
			fmt.Sprint(cfg.readFraction),
			fmt.Sprint(cfg.staticFraction),
			humanize.Comma(int64(cfg.iterations)),
			cfg.name,
			fmt.Sprint(best),
			humanize.Comma(int64(updateRate)),
			makeTitle(),
		})
	}
	tw.Render()
	return nil
}

type layeredGraph struct {
	sources []*property.Property[int]
	last    []*property.Property[int]
}

// makeLayeredGraph builds width x totalLayers properties where each binding
// reads nSources from the layer above; a staticFraction<1 makes some
// bindings switch their source set based on the first source's parity, so
// dependency edges are rebuilt mid-run.
func makeLayeredGraph(cfg layersTestConfig, counter *int64) *layeredGraph {
	g := property.NewGraph(nil)
	rng := rand.New(rand.NewSource(0))

	sources := make([]*property.Property[int], cfg.width)
	for i := range sources {
		sources[i] = property.New(g, i)
	}

	prev := sources
	for l := 0; l < cfg.totalLayers; l++ {
		row := make([]*property.Property[int], cfg.width)
		for i := range row {
			static := rng.Float64() < cfg.staticFraction
			picks := make([]*property.Property[int], cfg.nSources)
			for k := range picks {
				picks[k] = prev[(i+k)%len(prev)]
			}
			alt := prev[rng.Intn(len(prev))]

			p := property.New(g, 0)
			p.SetBinding(func() int {
				(*counter)++
				sum := 0
				if static || picks[0].Get()%2 == 0 {
					for _, s := range picks {
						sum += s.Get()
					}
				} else {
					sum = alt.Get()
				}
				return sum
			})
			row[i] = p
		}
		prev = row
	}

	return &layeredGraph{sources: sources, last: prev}
}

func runLayeredGraph(bg *layeredGraph, cfg layersTestConfig) int {
	sum := 0
	readCount := int(float64(len(bg.last)) * cfg.readFraction)
	if readCount < 1 {
		readCount = 1
	}
	for i := 0; i < cfg.iterations; i++ {
		src := bg.sources[i%len(bg.sources)]
		src.Set(src.GetUntracked() + 1)
		for j := 0; j < readCount; j++ {
			sum += bg.last[j].Get()
		}
	}
	return sum
}
