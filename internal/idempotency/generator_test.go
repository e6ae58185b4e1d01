package idempotency

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateKey(t *testing.T) {
	g := NewGenerator()
	params := map[string]interface{}{
		"request_id":           "req_1",
		"connected_account_id": "acct_1",
		"quantity":             3,
	}

	key := g.GenerateKey(ScopeCheckoutSession, params)
	assert.True(t, strings.HasPrefix(key, "checkout_session-"))
	assert.Len(t, key, len("checkout_session-")+32)
	assert.Equal(t, key, g.GenerateKey(ScopeCheckoutSession, map[string]interface{}{
		"quantity":             3,
		"connected_account_id": "acct_1",
		"request_id":           "req_1",
	}))

	params["quantity"] = 4
	assert.NotEqual(t, key, g.GenerateKey(ScopeCheckoutSession, params))
}
