package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/dgallion1/clausegest/internal/pathstore"
	"github.com/dgallion1/clausegest/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleListDocuments lists the metadata of every published document.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	store := s.orchestrator.Store()
	if store == nil {
		jsonError(w, "publishing is disabled", http.StatusServiceUnavailable)
		return
	}

	prefix := s.orchestrator.Prefix() + "/documents"
	children, err := store.ListChildren(r.Context(), prefix, 200)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Filter to only meta nodes.
	docs := []map[string]any{}
	for _, child := range children {
		if pathstore.LastSegment(child.Key) != "meta" {
			continue
		}
		parent := strings.TrimSuffix(child.Key, "meta")
		docs = append(docs, map[string]any{
			"doc_id": pathstore.LastSegment(parent[:max(0, len(parent)-1)]),
			"key":    child.Key,
			"meta":   child.Value,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// handleDeleteDocument deletes a document's clauses, links and metadata,
// then its dedup hash index entry.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	store := s.orchestrator.Store()
	if store == nil {
		jsonError(w, "publishing is disabled", http.StatusServiceUnavailable)
		return
	}

	docID := chi.URLParam(r, "docID")
	ctx := r.Context()
	docPrefix := pathstore.DocumentPrefix(s.orchestrator.Prefix(), docID)

	meta, err := store.GetNode(ctx, docPrefix+"/meta")
	if err != nil {
		jsonError(w, "failed to read document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if meta == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	if err := store.DeleteNode(ctx, docPrefix, true); err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	hashDeleted := s.deleteHashIndex(ctx, store, docID, meta)
	s.log.Info("document deleted", "doc_id", docID, "hash_index_deleted", hashDeleted)

	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":             docID,
		"deleted":            true,
		"hash_index_deleted": hashDeleted,
	})
}

func (s *Server) deleteHashIndex(ctx context.Context, store pipeline.Store, docID string, meta *pathstore.NodeResponse) bool {
	metaMap, ok := meta.Value.(map[string]any)
	if !ok {
		return false
	}
	hash, _ := metaMap["content_hash"].(string)
	if hash == "" {
		return false
	}
	if err := store.DeleteNode(ctx, pathstore.HashKey(s.orchestrator.Prefix(), hash, docID), false); err != nil {
		s.log.Warn("hash index delete failed", "doc_id", docID, "error", err)
		return false
	}
	return true
}
