package command

import (
	"sync"
	"time"

	"github.com/Preet1920/finebookeasyaccounting/shared/models"
	"github.com/Preet1920/finebookeasyaccounting/shared/utils"
)

type pendingDeletion struct {
	ownerID  string
	deletion models.Deletion
	expires  time.Time
}

// confirmations holds requested deletions until their owner confirms them.
// Tokens are single use and expire after ttl.
type confirmations struct {
	mu      sync.Mutex
	ttl     time.Duration
	pending map[string]pendingDeletion
}

func newConfirmations(ttl time.Duration) *confirmations {
	return &confirmations{ttl: ttl, pending: make(map[string]pendingDeletion)}
}

func (c *confirmations) issue(ownerID string, d models.Deletion, now time.Time) models.Deletion {
	c.mu.Lock()
	defer c.mu.Unlock()
	for token, p := range c.pending {
		if !now.Before(p.expires) {
			delete(c.pending, token)
		}
	}
	expires := now.Add(c.ttl)
	d.Token = utils.NewToken()
	d.ExpiresAt = &expires
	c.pending[d.Token] = pendingDeletion{ownerID: ownerID, deletion: d, expires: expires}
	return d
}

// redeem consumes token. A token presented by another owner is reported as
// unknown and stays pending.
func (c *confirmations) redeem(ownerID, token string, now time.Time) (models.Deletion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pending[token]
	if !ok || p.ownerID != ownerID {
		return models.Deletion{}, ErrConfirmationNotFound
	}
	delete(c.pending, token)
	if !now.Before(p.expires) {
		return models.Deletion{}, ErrConfirmationExpired
	}
	return p.deletion, nil
}
