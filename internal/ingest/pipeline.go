// Package ingest turns resume files into indexed profiles.
package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/ninerlabs/peermatch/internal/extract"
	"github.com/ninerlabs/peermatch/internal/fileid"
	"github.com/ninerlabs/peermatch/internal/indexer"
	"github.com/ninerlabs/peermatch/internal/parser"
)

// Pipeline extracts, parses, and indexes resumes, fanning file work out over
// a bounded worker pool.
type Pipeline struct {
	extractor *extract.Extractor
	parser    parser.Parser
	indexer   *indexer.Indexer
	pool      *ants.Pool
	logger    *zap.Logger
}

// NewPipeline creates an ingest pipeline with the given number of workers.
func NewPipeline(
	extractor *extract.Extractor,
	resumeParser parser.Parser,
	idx *indexer.Indexer,
	workers int,
	logger *zap.Logger,
) (*Pipeline, error) {
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Pipeline{
		extractor: extractor,
		parser:    resumeParser,
		indexer:   idx,
		pool:      pool,
		logger:    logger,
	}, nil
}

// IngestFile processes one resume: extract text, parse it into a profile,
// and index it under an ID derived from the file path so re-ingesting the
// same file updates the same profile.
func (p *Pipeline) IngestFile(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}

	text, err := p.extractor.Extract(absPath)
	if err != nil {
		return fmt.Errorf("extract %s: %w", absPath, err)
	}
	profile, err := p.parser.Parse(ctx, text)
	if err != nil {
		return fmt.Errorf("parse %s: %w", absPath, err)
	}
	profile.ID = fileid.ResumeID(absPath)

	if err := p.indexer.UpsertProfile(ctx, profile); err != nil {
		return fmt.Errorf("index %s: %w", absPath, err)
	}
	p.logger.Info("resume ingested",
		zap.String("path", absPath), zap.String("profile_id", profile.ID))
	return nil
}

// RemoveFile removes the profile that was ingested from path.
func (p *Pipeline) RemoveFile(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	return p.indexer.RemoveProfile(ctx, fileid.ResumeID(absPath))
}

// IngestDirectory walks dir and ingests every regular file whose extension
// is in extensions (all files when empty). Files are processed concurrently;
// per-file failures are logged and counted, not fatal.
func (p *Pipeline) IngestDirectory(ctx context.Context, dir string, extensions []string) (ingested, failed int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("absolute path: %w", err)
	}

	var (
		wg      sync.WaitGroup
		okCount atomic.Int64
		bad     atomic.Int64
	)
	walkErr := filepath.WalkDir(absDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !extensionAllowed(filepath.Ext(path), extensions) {
			return nil
		}
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.IngestFile(ctx, path); err != nil {
				p.logger.Warn("resume ingest failed", zap.String("path", path), zap.Error(err))
				bad.Add(1)
				return
			}
			okCount.Add(1)
		})
		if submitErr != nil {
			wg.Done()
			return submitErr
		}
		return nil
	})
	wg.Wait()
	return int(okCount.Load()), int(bad.Load()), walkErr
}

// Close releases the worker pool.
func (p *Pipeline) Close() {
	p.pool.Release()
}

func extensionAllowed(ext string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
