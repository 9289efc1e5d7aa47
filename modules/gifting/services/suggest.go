package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mineworks/giftissue/modules/gifting/domain/entities/giftslot"
	"github.com/mineworks/giftissue/pkg/excel"
)

// SlotSuggestion is an advisory sheet-to-slot match. The operator has final
// say; Ambiguous flags sheets whose key collides with more than one slot.
type SlotSuggestion struct {
	SheetName  string    `json:"sheetName"`
	SlotID     uuid.UUID `json:"slotId,omitempty"`
	SlotName   string    `json:"slotName,omitempty"`
	Ambiguous  bool      `json:"ambiguous,omitempty"`
	Candidates []string  `json:"candidates,omitempty"`
}

// SuggestSheetSlots matches sheet names to slot names by key equality, first
// slot wins on a collision. Sheets without an exact match get ranked fuzzy
// candidates instead of a slot id.
func SuggestSheetSlots(sheetNames []string, slots []giftslot.GiftSlot) []SlotSuggestion {
	slotNames := make([]string, len(slots))
	for i, s := range slots {
		slotNames[i] = s.Name
	}

	suggestions := make([]SlotSuggestion, 0, len(sheetNames))
	for _, sheetName := range sheetNames {
		suggestion := SlotSuggestion{SheetName: sheetName}
		sheetKey := excel.Key(sheetName)
		if sheetKey == "" {
			suggestions = append(suggestions, suggestion)
			continue
		}

		matches := 0
		for _, slot := range slots {
			if excel.Key(slot.Name) != sheetKey {
				continue
			}
			matches++
			if matches == 1 {
				suggestion.SlotID = slot.ID
				suggestion.SlotName = slot.Name
			}
		}
		suggestion.Ambiguous = matches > 1

		if matches == 0 {
			ranks := fuzzy.RankFindNormalizedFold(sheetName, slotNames)
			sort.Sort(ranks)
			for _, r := range ranks {
				suggestion.Candidates = append(suggestion.Candidates, r.Target)
			}
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions
}

// SuggestSlots loads the issuing's slots and matches them against the
// workbook's sheet names.
func (s *ImportService) SuggestSlots(ctx context.Context, issuingID uuid.UUID, sheetNames []string) ([]SlotSuggestion, error) {
	slots, err := s.slots.ListByIssuing(ctx, issuingID)
	if err != nil {
		return nil, err
	}
	return SuggestSheetSlots(sheetNames, slots), nil
}
