package service

import (
	"context"

	"github.com/runboard/runboard/internal/model"
)

// PlanSortKeys renumbers an operator-reordered list with contiguous
// integer keys (0, 1, 2, ...) and returns only the entries whose key
// actually changed, minimizing write volume.  current carries the stored
// id/key pairs; orderedIDs is the new order and must be a permutation of
// them.
func PlanSortKeys(current []model.KeyUpdate, orderedIDs []uint64) ([]model.KeyUpdate, error) {
	if len(current) != len(orderedIDs) {
		return nil, ErrOrderMismatch
	}
	stored := make(map[uint64]int, len(current))
	for _, c := range current {
		stored[c.ID] = c.Key
	}
	seen := make(map[uint64]bool, len(orderedIDs))
	var changed []model.KeyUpdate
	for pos, id := range orderedIDs {
		key, ok := stored[id]
		if !ok || seen[id] {
			return nil, ErrOrderMismatch
		}
		seen[id] = true
		if key != pos {
			changed = append(changed, model.KeyUpdate{ID: id, Key: pos})
		}
	}
	return changed, nil
}

// OrderingService renumbers the two non-time orderable collections of a
// run, materials and documents, after a list drag.
type OrderingService struct {
	materials MaterialStore
	documents DocumentStore
}

// NewOrderingService wires the reorderer.
func NewOrderingService(materials MaterialStore, documents DocumentStore) *OrderingService {
	if materials == nil || documents == nil {
		panic("nil store passed to NewOrderingService")
	}
	return &OrderingService{materials: materials, documents: documents}
}

// ReorderMaterials applies a new material order and returns the key
// updates that were written.
func (s *OrderingService) ReorderMaterials(ctx context.Context, runID uint64, orderedIDs []uint64) ([]model.KeyUpdate, error) {
	items, err := s.materials.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	current := make([]model.KeyUpdate, 0, len(items))
	for _, m := range items {
		current = append(current, model.KeyUpdate{ID: m.ID, Key: m.SortKey})
	}
	changed, err := PlanSortKeys(current, orderedIDs)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return nil, nil
	}
	if err := s.materials.UpdateSortKeys(ctx, changed); err != nil {
		return nil, err
	}
	return changed, nil
}

// ReorderDocuments applies a new document order and returns the key
// updates that were written.
func (s *OrderingService) ReorderDocuments(ctx context.Context, runID uint64, orderedIDs []uint64) ([]model.KeyUpdate, error) {
	items, err := s.documents.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	current := make([]model.KeyUpdate, 0, len(items))
	for _, d := range items {
		current = append(current, model.KeyUpdate{ID: d.ID, Key: d.SortKey})
	}
	changed, err := PlanSortKeys(current, orderedIDs)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return nil, nil
	}
	if err := s.documents.UpdateSortKeys(ctx, changed); err != nil {
		return nil, err
	}
	return changed, nil
}
