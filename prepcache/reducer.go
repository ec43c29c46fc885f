package prepcache

// slotUpdate is the message an enrichment completion sends to the store:
// merge this document into this entry's slot. prepID pins the update to
// the generation the document was fetched for.
type slotUpdate struct {
	resumeID int
	prepID   int
	category Category
	document map[string]any
}

// apply folds one slot update into the entry map. It re-reads the
// current entry so a slow writer can never clobber a sibling's merge,
// and silently no-ops when the entry was deleted or regenerated while
// the fetch was in flight. The entry is replaced with a copy so
// snapshots already handed to readers are never written to.
//
// apply is pure over its inputs and holds no locks; the store serializes
// calls to it.
func apply(entries map[int]*Prep, upd slotUpdate) bool {
	entry, ok := entries[upd.resumeID]
	if !ok {
		// Deleted mid-flight; do not resurrect.
		return false
	}
	if entry.PrepID != upd.prepID {
		// Regenerated mid-flight; the document belongs to the replaced
		// generation.
		return false
	}

	next := entry.clone()
	next.setSlot(upd.category, upd.document)
	entries[upd.resumeID] = next
	return true
}
