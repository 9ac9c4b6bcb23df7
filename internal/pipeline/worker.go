package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dgallion1/clausegest/internal/clause"
	"github.com/dgallion1/clausegest/internal/convert"
	"github.com/dgallion1/clausegest/internal/document"
	"github.com/dgallion1/clausegest/internal/metrics"
	"github.com/dgallion1/clausegest/internal/pathstore"
	"golang.org/x/sync/errgroup"
)

// Store is the subset of the pathstore API the pipeline and its HTTP
// handlers use.
type Store interface {
	PutNode(ctx context.Context, key string, req pathstore.NodeRequest) error
	GetNode(ctx context.Context, key string) (*pathstore.NodeResponse, error)
	DeleteNode(ctx context.Context, key string, recursive bool) error
	ListChildren(ctx context.Context, key string, limit int) ([]pathstore.ListChildrenResponse, error)
	PutLink(ctx context.Context, req pathstore.LinkRequest) error
}

// WorkerOptions configures a Worker.
type WorkerOptions struct {
	Prefix             string // pathstore key prefix
	MaxConcurrentStore int
	PDFFallback        bool
	DefaultTitle       string // used when no title can be found; empty means clause.DefaultTitle
}

// Worker processes a single document job.
type Worker struct {
	store Store
	log   *slog.Logger
	stats *LatencyStats
	opts  WorkerOptions
	conv  convert.Options
}

// NewWorker creates a worker. A nil store disables dedup and publishing.
func NewWorker(store Store, log *slog.Logger, stats *LatencyStats, opts WorkerOptions) *Worker {
	if opts.MaxConcurrentStore <= 0 {
		opts.MaxConcurrentStore = 1
	}
	if opts.Prefix == "" {
		opts.Prefix = "clausegest"
	}
	if stats == nil {
		stats = NewLatencyStats(time.Hour)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		store: store,
		log:   log,
		stats: stats,
		opts:  opts,
		conv:  convert.Options{PDFFallback: opts.PDFFallback},
	}
}

// Result is the outcome of converting and segmenting one file.
type Result struct {
	Document *document.Document
	Records  []clause.Record
	Index    clause.Index
}

// Segment converts data and runs the clause pipeline over it without
// touching the store. Conversion errors are returned unchanged so callers
// can match the convert failure kinds.
func (w *Worker) Segment(data []byte, filename, title string) (*Result, error) {
	doc, err := w.conv.File(bytes.NewReader(data), filename)
	if err != nil {
		metrics.RecordConversionFailure(err)
		return nil, err
	}
	records, idx := w.segmentText(doc, title)
	return &Result{Document: doc, Records: records, Index: idx}, nil
}

// segmentText picks the title (upload, converter, text, configured
// default, in that order) and runs the clause pipeline.
func (w *Worker) segmentText(doc *document.Document, supplied string) ([]clause.Record, clause.Index) {
	title := supplied
	if strings.TrimSpace(title) == "" {
		title = doc.Title
	}
	if title == "" && clause.ExtractTitle(doc.Text) == "" {
		title = w.opts.DefaultTitle
	}
	return clause.ProcessIndexed(doc.Text, title)
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	start := time.Now()
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Convert
	job.SetStatus(StatusConverting, "converting")
	phaseStart := time.Now()
	doc, err := w.conv.File(bytes.NewReader(job.FileData()), job.Filename)
	metrics.ObservePhase("convert", phaseStart)
	if err != nil {
		metrics.RecordConversionFailure(err)
		log.Error("conversion failed", "error", err, "kind", metrics.FailureKind(err))
		job.AddError(err.Error())
		w.finish(job, StatusFailed, "converting", start, 0)
		return
	}
	job.releaseFileData()

	hash := ContentHashHex([]byte(doc.Text))
	job.setContentHash(hash)

	// Phase 1.5: Dedup check
	if w.store != nil && !job.Force {
		exists, existingDocID, err := w.checkDuplicate(ctx, hash)
		if err != nil {
			log.Warn("dedup check failed, proceeding", "error", err)
		} else if exists {
			log.Info("duplicate document, skipping", "existing_doc_id", existingDocID)
			w.finish(job, StatusDupSkipped, "dedup", start, 0)
			return
		}
	}

	// Phase 2: Segment
	job.SetStatus(StatusSegmenting, "segmenting")
	phaseStart = time.Now()
	records, idx := w.segmentText(doc, job.Title)
	metrics.ObservePhase("segment", phaseStart)
	job.SetResult(records, idx)
	snap := job.Snapshot()
	metrics.RecordClauses(snap.Progress.TotalClauses, snap.Progress.CrossReferences)
	if len(records) > 0 {
		job.setTitle(records[0].Metadata.SourceDocumentTitle)
	}
	log.Info("segmented document", "clauses", len(records), "cross_references", snap.Progress.CrossReferences)
	if len(records) == 0 {
		log.Warn("no clauses found")
	}

	if w.store == nil {
		w.finish(job, StatusCompleted, "done", start, len(records))
		return
	}

	// Phase 3: Publish clauses, links, then document metadata.
	job.SetStatus(StatusPublishing, "publishing")
	phaseStart = time.Now()
	published, failed := w.publish(ctx, log, job, records, idx)
	metrics.ObservePhase("publish", phaseStart)
	log.Info("publishing complete", "published", published, "failed", failed, "total", len(records))

	w.writeMeta(ctx, log, job, doc, records)

	switch {
	case failed > 0 && published > 0:
		w.finish(job, StatusPartial, "done", start, len(records))
	case failed > 0:
		w.finish(job, StatusFailed, "publishing", start, len(records))
	default:
		w.finish(job, StatusCompleted, "done", start, len(records))
	}
}

// finish records the job in stats before publishing its final status, so
// anyone polling the status sees consistent stats.
func (w *Worker) finish(job *Job, status JobStatus, phase string, start time.Time, clauses int) {
	w.stats.Record(time.Since(start), clauses)
	metrics.RecordDocument(string(status))
	job.SetStatus(status, phase)
}

// publish writes every clause as a node, then every resolvable cross
// reference as a link between clause nodes. It returns how many clauses
// were stored and how many failed.
func (w *Worker) publish(ctx context.Context, log *slog.Logger, job *Job, records []clause.Record, idx clause.Index) (int, int) {
	var published, failed atomic.Int64
	source := "clausegest:" + job.DocID

	var g errgroup.Group
	g.SetLimit(w.opts.MaxConcurrentStore)
	for _, rec := range records {
		g.Go(func() error {
			number := rec.Metadata.ClauseNumber
			key := pathstore.ClauseKey(w.opts.Prefix, job.DocID, number)
			err := withRetry(ctx, log, "put clause", func() error {
				return w.store.PutNode(ctx, key, pathstore.NodeRequest{
					Value:      rec,
					MemoryType: "semantic",
					Salience:   0.5,
					Source:     source,
				})
			})
			if err != nil {
				log.Error("store clause failed", "clause", number, "error", err)
				job.AddError(fmt.Sprintf("clause %s: %s", number, err))
				failed.Add(1)
				return nil
			}
			published.Add(1)
			job.IncrPublished(1, 0)
			return nil
		})
	}
	g.Wait()

	var links errgroup.Group
	links.SetLimit(w.opts.MaxConcurrentStore)
	for _, rec := range records {
		from := pathstore.ClauseKey(w.opts.Prefix, job.DocID, rec.Metadata.ClauseNumber)
		targets := make([]string, 0, len(rec.Metadata.CrossReferences))
		for number := range rec.Metadata.CrossReferences {
			targets = append(targets, number)
		}
		slices.Sort(targets)

		for _, number := range targets {
			if _, ok := idx.Resolve(number); !ok {
				log.Debug("dangling cross reference", "clause", rec.Metadata.ClauseNumber, "target", number)
				continue
			}
			phrase := rec.Metadata.CrossReferences[number]
			links.Go(func() error {
				err := withRetry(ctx, log, "put link", func() error {
					return w.store.PutLink(ctx, pathstore.LinkRequest{
						From:    from,
						To:      pathstore.ClauseKey(w.opts.Prefix, job.DocID, number),
						Weight:  1,
						Summary: phrase,
					})
				})
				if err != nil {
					log.Warn("store link failed", "from", from, "to", number, "error", err)
					job.AddError(fmt.Sprintf("link %s -> %s: %s", rec.Metadata.ClauseNumber, number, err))
					return nil
				}
				job.IncrPublished(0, 1)
				return nil
			})
		}
	}
	links.Wait()

	return int(published.Load()), int(failed.Load())
}

// writeMeta stores the document metadata node and the hash index entry.
func (w *Worker) writeMeta(ctx context.Context, log *slog.Logger, job *Job, doc *document.Document, records []clause.Record) {
	snap := job.Snapshot()
	docPrefix := pathstore.DocumentPrefix(w.opts.Prefix, job.DocID)
	source := "clausegest:" + job.DocID

	var shortTitle string
	if len(records) > 0 {
		shortTitle = records[0].Metadata.ShortDocumentTitle
	}
	metaErr := withRetry(ctx, log, "put meta", func() error {
		return w.store.PutNode(ctx, docPrefix+"/meta", pathstore.NodeRequest{
			Value: map[string]any{
				"filename":          job.Filename,
				"name":              doc.Name,
				"title":             snap.Title,
				"short_title":       shortTitle,
				"content_hash":      snap.ContentHash,
				"clauses":           snap.Progress.TotalClauses,
				"clauses_published": snap.Progress.ClausesPublished,
				"cross_references":  snap.Progress.CrossReferences,
				"created_at":        job.CreatedAt.Format(time.RFC3339),
			},
			MemoryType: "metacognitive",
			Salience:   0.5,
			Source:     source,
		})
	})
	if metaErr != nil {
		log.Error("meta write failed", "error", metaErr)
		job.AddError(fmt.Sprintf("meta: %s", metaErr))
	}

	// Write hash index for dedup.
	hashErr := withRetry(ctx, log, "put hash index", func() error {
		return w.store.PutNode(ctx, pathstore.HashKey(w.opts.Prefix, snap.ContentHash, job.DocID), pathstore.NodeRequest{
			Value: map[string]any{
				"filename":   job.Filename,
				"created_at": job.CreatedAt.Format(time.RFC3339),
			},
			MemoryType: "metacognitive",
			Salience:   0.1,
			Source:     source,
		})
	})
	if hashErr != nil {
		log.Error("hash index write failed", "error", hashErr)
	}
}

// checkDuplicate checks if this content hash is already indexed.
func (w *Worker) checkDuplicate(ctx context.Context, hash string) (bool, string, error) {
	children, err := w.store.ListChildren(ctx, pathstore.HashPrefix(w.opts.Prefix, hash), 1)
	if err != nil {
		return false, "", err
	}
	if len(children) > 0 {
		return true, pathstore.LastSegment(children[0].Key), nil
	}
	return false, "", nil
}
