/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/Emathyran/daily-news/archive"
	"github.com/Emathyran/daily-news/collector"
	"github.com/Emathyran/daily-news/config"
	"github.com/Emathyran/daily-news/enricher"
	"github.com/Emathyran/daily-news/gemini"
	"github.com/Emathyran/daily-news/pipeline"
	"github.com/Emathyran/daily-news/render"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "daily-news",
		Usage: "Generate the daily news digest",
		Description: `Collects recent articles from the configured RSS feeds, attaches a
		Gemini-generated analysis to each and writes a static HTML digest:
		index.html for today plus a dated snapshot under archives/.

		The feed registry is compiled into the binary. The only runtime
		configuration is the Gemini credential:

		GEMINI_API_KEY => API key for the Google Generative Language API
		`,
		Action: func(ctx *cli.Context) error {
			return run(ctx)
		},
	}
}

// run wires the pipeline from the loaded configuration and executes it once.
// The credential is resolved before any network activity starts.
func run(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}

	p := pipeline.New(&pipeline.Config{
		Collector:  collector.New(cfg.Categories, collector.NewRSSFetcher()),
		Enricher:   enricher.New(gemini.NewClient(gemini.DefaultHost, cfg.APIKey, config.DefaultModel)),
		Store:      archive.NewDirStore(config.ArchiveDir),
		Renderer:   renderer,
		OutputFile: config.OutputFile,
	})

	return p.Run(ctx.Context)
}

// Execute runs the application and exits non-zero on any fatal error.
func Execute() {
	if err := RootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
