package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polisearch/polisearch/pkg/config"
)

func TestFormatMessage(t *testing.T) {
	a := NewEmailAlerter(config.AlertConfig{
		From: "alerts@polisearch.example",
		To:   []string{"ops@polisearch.example", "oncall@polisearch.example"},
	})
	a.now = func() time.Time {
		return time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC)
	}

	msg := string(a.formatMessage("search breaker open", "consecutive failures against the index"))

	assert.Contains(t, msg, "Subject: [polisearch] search breaker open\r\n")
	assert.Contains(t, msg, "From: alerts@polisearch.example\r\n")
	assert.Contains(t, msg, "To: ops@polisearch.example,oncall@polisearch.example\r\n")
	assert.Contains(t, msg, "Time: 2026-08-26T10:30:00Z\r\n")
	assert.Contains(t, msg, "consecutive failures against the index\r\n")
}

func TestAlertDisabledIsNoOp(t *testing.T) {
	a := NewEmailAlerter(config.AlertConfig{Enabled: false})
	require.NoError(t, a.Alert("subject", "message"))
}

func TestNoOpAlerter(t *testing.T) {
	var a Alerter = &NoOpAlerter{}
	require.NoError(t, a.Alert("subject", "message"))
}
