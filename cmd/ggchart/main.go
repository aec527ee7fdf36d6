// Command ggchart renders a chart option file to PNG.
//
// Usage:
//
//	ggchart -option chart.json -output chart.png
//	ggchart -option chart.json -watch   # re-render on every save
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/ggchart"
	"github.com/gogpu/ggchart/option"
	"github.com/gogpu/ggchart/rasterview"
	"github.com/gogpu/ggchart/scheduler"
)

func main() {
	var (
		optPath = flag.String("option", "", "chart option file (JSON)")
		output  = flag.String("output", "chart.png", "output file")
		width   = flag.Int("width", 800, "image width")
		height  = flag.Int("height", 600, "image height")
		frame   = flag.Duration("frame", 16*time.Millisecond, "time budget of one pass")
		watch   = flag.Bool("watch", false, "re-render whenever the option file changes")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()
	if *optPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	ggchart.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	r := &renderer{
		canvas: rasterview.NewCanvas(*width, *height),
		output: *output,
		frame:  *frame,
		p:      message.NewPrinter(language.English),
	}
	r.chart = ggchart.New(ggchart.WithTarget(r.canvas))
	defer r.chart.Dispose()

	o, err := option.Load(*optPath)
	if err != nil {
		log.Fatalf("Failed to load option: %v", err)
	}
	if err := r.render(o); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.Printf("Watching %s", *optPath)
	err = option.Watch(ctx, *optPath, func(o *option.Option, err error) {
		if err != nil {
			log.Printf("Reload failed: %v", err)
			return
		}
		if err := r.render(o); err != nil {
			log.Printf("Render failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Watch failed: %v", err)
	}
}

type renderer struct {
	chart  *ggchart.Chart
	canvas *rasterview.Canvas
	output string
	frame  time.Duration
	p      *message.Printer
}

// render applies o and runs passes of one frame budget each until the
// chart is complete, then writes the image.
func (r *renderer) render(o *option.Option) error {
	start := time.Now()
	r.canvas.Reset()
	if err := r.chart.SetOption(o); err != nil {
		return err
	}
	passes := 0
	for more := true; more; passes++ {
		var err error
		if more, err = r.chart.PerformPass(scheduler.TimeBudget(r.frame)); err != nil {
			return err
		}
	}

	f, err := os.Create(r.output)
	if err != nil {
		return err
	}
	if err := r.canvas.WritePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	rows := 0
	for _, s := range r.chart.Model().Series() {
		rows += s.Store().Count()
	}
	r.p.Printf("%s: %d series, %d rows, %d bars in %d passes (%v)\n",
		r.output, r.chart.Model().Len(), rows, r.canvas.Bars(), passes,
		time.Since(start).Round(time.Millisecond))
	return nil
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s -option chart.json [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
}
