package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mineworks/giftissue/modules/gifting/domain/entities/giftslot"
)

func TestSuggestSheetSlots_KeyEquality(t *testing.T) {
	powerbank := giftslot.GiftSlot{ID: uuid.New(), Name: "Power Bank"}
	boots := giftslot.GiftSlot{ID: uuid.New(), Name: "Boots"}

	suggestions := SuggestSheetSlots(
		[]string{"POWER-BANK", "boots", "Helmets"},
		[]giftslot.GiftSlot{powerbank, boots},
	)
	require.Len(t, suggestions, 3)

	require.Equal(t, powerbank.ID, suggestions[0].SlotID)
	require.Equal(t, "Power Bank", suggestions[0].SlotName)
	require.False(t, suggestions[0].Ambiguous)

	require.Equal(t, boots.ID, suggestions[1].SlotID)

	require.Equal(t, uuid.Nil, suggestions[2].SlotID)
}

func TestSuggestSheetSlots_AmbiguousCollision(t *testing.T) {
	first := giftslot.GiftSlot{ID: uuid.New(), Name: "Power Bank"}
	second := giftslot.GiftSlot{ID: uuid.New(), Name: "POWER-BANK"}

	suggestions := SuggestSheetSlots([]string{"powerbank"}, []giftslot.GiftSlot{first, second})
	require.Len(t, suggestions, 1)
	// first slot wins, but the collision is surfaced
	require.Equal(t, first.ID, suggestions[0].SlotID)
	require.True(t, suggestions[0].Ambiguous)
}

func TestSuggestSheetSlots_FuzzyCandidates(t *testing.T) {
	lamp := giftslot.GiftSlot{ID: uuid.New(), Name: "Cap Lamp"}
	boots := giftslot.GiftSlot{ID: uuid.New(), Name: "Boots"}

	suggestions := SuggestSheetSlots([]string{"Lamp"}, []giftslot.GiftSlot{lamp, boots})
	require.Len(t, suggestions, 1)
	require.Equal(t, uuid.Nil, suggestions[0].SlotID)
	require.Contains(t, suggestions[0].Candidates, "Cap Lamp")
}

func TestSuggestSheetSlots_EmptyKeyNeverMatches(t *testing.T) {
	slot := giftslot.GiftSlot{ID: uuid.New(), Name: "---"}

	suggestions := SuggestSheetSlots([]string{"***"}, []giftslot.GiftSlot{slot})
	require.Len(t, suggestions, 1)
	require.Equal(t, uuid.Nil, suggestions[0].SlotID)
	require.False(t, suggestions[0].Ambiguous)
}

func TestImportService_SuggestSlots(t *testing.T) {
	f := newFixture(t, ImportOptions{})

	suggestions, err := f.service.SuggestSlots(context.Background(), f.issuing.ID, []string{"BOOTS", "Lamp"})
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	require.Equal(t, f.bootsID, suggestions[0].SlotID)
	require.Equal(t, f.lampID, suggestions[1].SlotID)
}
