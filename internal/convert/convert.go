// Package convert wires extraction, rendering and output placement into one
// conversion run.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ilia01/jira2md/internal/config"
	"github.com/Ilia01/jira2md/internal/jira"
	"github.com/Ilia01/jira2md/internal/logging"
	"github.com/Ilia01/jira2md/internal/models"
	"github.com/Ilia01/jira2md/internal/render"
	"github.com/Ilia01/jira2md/internal/utils"
)

type Converter struct {
	OutputDir string
	Buckets   config.Buckets
	Sections  []render.Section
	Logger    logging.Logger
}

type Result struct {
	Record   *models.Record
	Document string
	Path     string
}

func New(settings *config.Settings, outputDir string, logger logging.Logger) *Converter {
	if outputDir == "" {
		outputDir = settings.Output.Dir
	}
	sections := make([]render.Section, 0, len(settings.Sections))
	for _, s := range settings.Sections {
		sections = append(sections, render.Section{Heading: s.Heading, Field: s.Field})
	}
	return &Converter{
		OutputDir: outputDir,
		Buckets:   settings.Output.Buckets,
		Sections:  sections,
		Logger:    logger,
	}
}

// Bucket files a status under one of three directories by case-insensitive
// substring match.
func Bucket(status string, names config.Buckets) string {
	names = withDefaults(names)
	lowered := strings.ToLower(status)
	switch {
	case strings.Contains(lowered, "progress"):
		return names.InProgress
	case strings.Contains(lowered, "done"),
		strings.Contains(lowered, "complete"),
		strings.Contains(lowered, "resolved"):
		return names.Completed
	default:
		return names.Backlog
	}
}

func withDefaults(names config.Buckets) config.Buckets {
	defaults := config.DefaultBuckets()
	if names.InProgress == "" {
		names.InProgress = defaults.InProgress
	}
	if names.Completed == "" {
		names.Completed = defaults.Completed
	}
	if names.Backlog == "" {
		names.Backlog = defaults.Backlog
	}
	return names
}

func (c *Converter) logger() logging.Logger {
	if c.Logger == nil {
		return logging.NoOp()
	}
	return c.Logger
}

// Render produces the document for rec without touching the filesystem.
func (c *Converter) Render(rec *models.Record) (string, error) {
	return render.Markdown(rec, render.Options{Sections: c.Sections})
}

// OutputPath is <OutputDir>/<bucket>/<KEY>.md.
func (c *Converter) OutputPath(rec *models.Record) (string, error) {
	name, err := utils.IssueFileName(rec.Key)
	if err != nil {
		return "", err
	}
	outputDir := c.OutputDir
	if outputDir == "" {
		outputDir = config.DefaultOutputDir
	}
	return filepath.Join(outputDir, Bucket(rec.Status, c.Buckets), name), nil
}

func (c *Converter) ConvertFile(path string) (*Result, error) {
	c.logger().Debug("reading export", "path", path)
	rec, err := jira.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return c.write(rec)
}

func (c *Converter) ConvertBytes(data []byte) (*Result, error) {
	rec, err := jira.Parse(data)
	if err != nil {
		return nil, err
	}
	return c.write(rec)
}

func (c *Converter) write(rec *models.Record) (*Result, error) {
	target, err := c.OutputPath(rec)
	if err != nil {
		return nil, err
	}
	doc, err := c.Render(rec)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := writeFileAtomic(target, []byte(doc)); err != nil {
		return nil, err
	}

	c.logger().Info("converted issue", "key", rec.Key, "status", rec.Status, "path", target)
	return &Result{Record: rec, Document: doc, Path: target}, nil
}

// writeFileAtomic writes through a temp file in the same directory so a
// failed run never leaves a truncated document behind.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jira2md-*")
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
