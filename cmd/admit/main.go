package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"memcore/infrastructure/config"
	"memcore/infrastructure/di"
	pkgerrors "memcore/pkg/errors"
)

func main() {
	os.Exit(run())
}

func run() int {
	input := flag.String("input", "-", "candidate JSON file, or - for stdin")
	vocabFile := flag.String("vocab", "", "vocabulary and embedding override file (YAML)")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 2
	}
	if *vocabFile != "" {
		cfg.VocabularyFile = *vocabFile
	}

	// Initialize dependency container
	container, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Printf("Failed to initialize container: %v", err)
		return 2
	}
	defer container.Logger.Sync()

	data, err := readCandidate(*input)
	if err != nil {
		container.Logger.Error("Failed to read candidate", zap.Error(err))
		return 2
	}

	node, err := container.AdmissionService.AdmitJSON(ctx, data)
	if err != nil {
		reporter := pkgerrors.NewRejectionReporter(container.Logger)
		if reportErr := reporter.Report(os.Stderr, err); reportErr != nil {
			container.Logger.Error("Failed to write rejection", zap.Error(reportErr))
		}
		return 1
	}

	out, err := json.MarshalIndent(node, "", "  ")
	if err != nil {
		container.Logger.Error("Failed to encode node", zap.Error(err))
		return 2
	}
	fmt.Println(string(out))
	return 0
}

func readCandidate(input string) ([]byte, error) {
	if input == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(input)
}
