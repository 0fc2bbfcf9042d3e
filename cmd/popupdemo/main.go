package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"popupkit/internal/trace"
	"popupkit/internal/ui"
)

func main() {
	maxTraces := flag.Int("traces", 16, "completed dispatch traces to keep in the status panel ring")
	traceLog := flag.String("trace-log", "", "append completed dispatch traces to this file as JSON lines")
	flag.Parse()

	rec := trace.NewRecorder(*maxTraces)

	if *traceLog != "" {
		f, err := os.OpenFile(*traceLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Printf("Error: open trace log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		rec.SetLog(trace.NewLog(f))
	}

	p := tea.NewProgram(ui.NewModel(rec),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, runErr := p.Run()
	if err := rec.Shutdown(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		fmt.Printf("Error: %v\n", runErr)
		os.Exit(1)
	}
}
