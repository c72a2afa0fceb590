// Command replaydbg runs a JSON-authored replay script against the bundled
// reference guest, capturing named debug values and evaluating assertions
// frame by frame, then prints the resulting ExecutionReport as JSON. It is
// the headless equivalent of stepping a ROM by hand in a debugger.
package main

import (
	"flag"
	"fmt"
	"os"

	"nethercore/internal/guest/testguest"
	"nethercore/internal/replaydbg"
)

func main() {
	scriptPath := flag.String("script", "", "Path to a replay script JSON file (required)")
	outPath := flag.String("out", "", "Write the execution report JSON here instead of stdout")
	failFast := flag.Bool("fail-fast", true, "Stop at the first failed assertion instead of collecting all")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Println("Usage: replaydbg -script <script.json> [-out report.json] [-fail-fast=false]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := os.ReadFile(*scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading script: %v\n", err)
		os.Exit(1)
	}

	script, err := replaydbg.LoadScript(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading script: %v\n", err)
		os.Exit(1)
	}

	game := testguest.New()
	if err := game.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing guest: %v\n", err)
		os.Exit(1)
	}

	executor := replaydbg.NewExecutor(game, script, *failFast)
	report := executor.Run()

	jsonText, err := report.ToJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
		os.Exit(1)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(jsonText+"\n"), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report written to %s\n", *outPath)
	} else {
		fmt.Println(jsonText)
	}

	if reason := executor.StopReason(); reason != nil && reason.Kind == replaydbg.StopAssertionFailed {
		os.Exit(1)
	}
	if report.Summary.AssertionsFailed > 0 {
		os.Exit(1)
	}
}
