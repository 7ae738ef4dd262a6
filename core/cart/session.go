package cart

import (
	"context"
	"encoding/gob"

	"github.com/alexedwards/scs/v2"
)

const sessionKey = "cart"

func init() {
	gob.Register(Cart{})
}

// Load returns the cart kept in the operator session.
func Load(ctx context.Context, sm *scs.SessionManager) Cart {
	c, _ := sm.Get(ctx, sessionKey).(Cart)
	return c
}

func Store(ctx context.Context, sm *scs.SessionManager, c Cart) {
	if c.Empty() {
		sm.Remove(ctx, sessionKey)
		return
	}
	sm.Put(ctx, sessionKey, c)
}
