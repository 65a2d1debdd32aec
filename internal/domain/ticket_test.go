package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(TicketStatusUnresolved))
	assert.True(t, ValidStatus(TicketStatusPending))
	assert.True(t, ValidStatus(TicketStatusResolved))

	assert.False(t, ValidStatus(TicketStatus("Closed")))
	assert.False(t, ValidStatus(TicketStatus("unresolved")))
	assert.False(t, ValidStatus(TicketStatus("")))
}
