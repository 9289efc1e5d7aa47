package importplan

import (
	"github.com/google/uuid"

	"github.com/mineworks/giftissue/pkg/excel"
)

// QualifyingSlots returns the slot ids the row qualifies for, in the
// issuing's slot order. The evaluation is pure: an "all" rule always
// qualifies, a column rule qualifies iff both the cell and the expected
// value have non-empty keys and the keys are equal.
func (p *Plan) QualifyingSlots(row excel.Row) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(p.Slots))
	for _, slot := range p.Slots {
		rule, ok := p.Rules[slot.ID]
		if !ok {
			continue
		}
		if ruleMatches(rule, row) {
			out = append(out, slot.ID)
		}
	}
	return out
}

func ruleMatches(rule SlotRule, row excel.Row) bool {
	switch rule.Mode {
	case RuleAll:
		return true
	case RuleColumn:
		cell := excel.Key(row[rule.Column])
		expected := excel.Key(rule.Value)
		return cell != "" && expected != "" && cell == expected
	default:
		return false
	}
}
