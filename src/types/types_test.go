package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlots(t *testing.T) {
	assert.Equal(t, []Slot{SLOT_MORNING, SLOT_AFTERNOON}, AllSlots())

	assert.True(t, IsValidSlot(SLOT_MORNING))
	assert.True(t, IsValidSlot(SLOT_AFTERNOON))
	assert.False(t, IsValidSlot(Slot("evening")))
	assert.False(t, IsValidSlot(Slot("")))
}

func TestSlotLabel(t *testing.T) {
	assert.Equal(t, "8:00 - 14:00", SlotLabel(SLOT_MORNING))
	assert.Equal(t, "15:00 - 23:00", SlotLabel(SLOT_AFTERNOON))
}
