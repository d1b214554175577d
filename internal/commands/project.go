package commands

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/balancete/internal/ai"
	"github.com/cleared-dev/balancete/internal/config"
	"github.com/cleared-dev/balancete/internal/pipeline"
)

// project bundles everything a command needs to act on one directory.
type project struct {
	svc *pipeline.Service
	env config.Env
	log *logrus.Logger
}

// loadProject reads balancete.yaml and the environment, then builds the
// ingest pipeline rooted at dir.
func loadProject(dir string) (*project, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading %s (run \"balancete init\" first): %w", config.FileName, err)
	}

	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	log := env.NewLogger()

	var classifier *ai.Classifier
	if env.GeminiAPIKey != "" {
		classifier = ai.NewClassifier(env.GeminiAPIKey, log).
			WithSettings(cfg.AI.Model, cfg.AI.BatchSize, cfg.AI.Retries, cfg.AI.TimeoutSeconds)
	}

	return &project{
		svc: pipeline.New(root, cfg, classifier, log),
		env: env,
		log: log,
	}, nil
}
