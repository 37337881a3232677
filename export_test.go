package pgxadapt

import "github.com/jackc/pgxadapt/internal/lru"

// RowMakerForTest returns the row maker built for the bound result.
func (c *Cursor) RowMakerForTest() RowMaker {
	return c.rowMaker
}

// ResetRecordDescCacheForTest replaces the named-record descriptor cache with an empty one.
func ResetRecordDescCacheForTest() {
	recordDescCache.Lock()
	defer recordDescCache.Unlock()
	recordDescCache.descs = lru.New[string, *RecordDesc](recordDescCacheCapacity)
}

// RecordDescCacheLenForTest returns the number of cached descriptors.
func RecordDescCacheLenForTest() int {
	recordDescCache.Lock()
	defer recordDescCache.Unlock()
	return recordDescCache.descs.Len()
}
