package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/tasercake/beatbrain/pipeline"
)

// newPipeline wires a Pipeline to the console: colored source/target echo, a
// progress bar when stderr is a terminal, and a post-run summary of skipped
// items. The returned finish function renders the summary.
func newPipeline(cfg pipeline.Config, in, out string) (*pipeline.Pipeline, func(*pipeline.Summary)) {
	fmt.Printf("Converting %s -> %s\n", color.YellowString("'%s'", in), color.YellowString("'%s'", out))

	p := pipeline.New(cfg)

	if isatty.IsTerminal(os.Stderr.Fd()) {
		var bar *progressbar.ProgressBar
		p.Progress = func(done, total int, item string) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Converting"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(done)
		}
	}

	finish := func(summary *pipeline.Summary) {
		if summary == nil {
			return
		}
		fmt.Printf("Converted %d item(s)\n", summary.Converted)
		if len(summary.Skipped) == 0 {
			return
		}
		color.Red("Skipped %d undecodable item(s):", len(summary.Skipped))
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Path", "Error"})
		for _, item := range summary.Skipped {
			t.AppendRow(table.Row{item.Path, item.Err.Error()})
		}
		t.Render()
	}

	return p, finish
}
