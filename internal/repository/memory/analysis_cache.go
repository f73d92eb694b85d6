package memory

import (
	"sync"

	"github.com/omarshaarawi/courtside/internal/models"
)

type cacheEntry struct {
	gameweekID  int
	fingerprint string
	result      *models.AnalysisResult
}

// AnalysisCache remembers the single most recent analysis. A lookup hits
// only when both the gameweek and the roster fingerprint match that entry.
type AnalysisCache struct {
	entry *cacheEntry
	mu    sync.RWMutex
}

func NewAnalysisCache() *AnalysisCache {
	return &AnalysisCache{}
}

func (c *AnalysisCache) Get(gameweekID int, fingerprint string) (*models.AnalysisResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil || c.entry.gameweekID != gameweekID || c.entry.fingerprint != fingerprint {
		return nil, false
	}
	return c.entry.result, true
}

func (c *AnalysisCache) Put(gameweekID int, fingerprint string, result *models.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = &cacheEntry{gameweekID: gameweekID, fingerprint: fingerprint, result: result}
}

func (c *AnalysisCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = nil
}
