package view

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/expressdata/internal/logging"
)

func TestNotifier(t *testing.T) {
	var out, logs bytes.Buffer
	n := NewNotifier(&out, logging.New("debug", "text", &logs))
	ctx := context.Background()

	n.Success(ctx, "Login successful")
	n.Error(ctx, "Payment cancelled")
	n.Info(ctx, "Waiting for payment...")

	assert.Equal(t, "[OK] Login successful\n[ERROR] Payment cancelled\n[--] Waiting for payment...\n", out.String())
	assert.Contains(t, logs.String(), "Payment cancelled")
	assert.Contains(t, logs.String(), "component=toast")
}

func TestNotifier_MultiLine(t *testing.T) {
	var out bytes.Buffer
	n := NewNotifier(&out, logging.Discard())

	n.Success(context.Background(), "✅ Order Confirmed!\n\nOrder ID: #abc\n")
	assert.Equal(t, "[OK] ✅ Order Confirmed!\n\n     Order ID: #abc\n", out.String())
}
