package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"interviewcheck/pkg/contracts/domain"
)

// Confirmation is a pending destructive action awaiting a second request.
type Confirmation struct {
	Token     string               `json:"token"`
	Key       domain.EvaluationKey `json:"key"`
	ExpiresAt time.Time            `json:"expires_at"`
}

type pending struct {
	key       domain.EvaluationKey
	expiresAt time.Time
}

// Confirmations issues single-use tokens that must be presented within ttl
// to confirm a delete.
type Confirmations struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	pending map[string]pending
}

// NewConfirmations creates a token store. A nil clock uses time.Now.
func NewConfirmations(ttl time.Duration, now func() time.Time) *Confirmations {
	if now == nil {
		now = time.Now
	}
	return &Confirmations{
		ttl:     ttl,
		now:     now,
		pending: make(map[string]pending),
	}
}

// Request issues a token for deleting key.
func (c *Confirmations) Request(key domain.EvaluationKey) Confirmation {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweep()
	token := uuid.New().String()
	p := pending{key: key, expiresAt: c.now().Add(c.ttl)}
	c.pending[token] = p
	return Confirmation{Token: token, Key: key, ExpiresAt: p.expiresAt}
}

// Confirm consumes token. It reports whether the token was issued for key and
// has not expired. A token is consumed even when it does not match.
func (c *Confirmations) Confirm(token string, key domain.EvaluationKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[token]
	if !ok {
		return false
	}
	delete(c.pending, token)
	return p.key == key && c.now().Before(p.expiresAt)
}

// Pending returns the number of outstanding tokens.
func (c *Confirmations) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweep()
	return len(c.pending)
}

func (c *Confirmations) sweep() {
	now := c.now()
	for token, p := range c.pending {
		if !now.Before(p.expiresAt) {
			delete(c.pending, token)
		}
	}
}
