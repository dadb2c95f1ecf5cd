package trials

// Classify partitions a session's ordered trial records into leaf groups
// keyed by (phase, layout, field), preserving relative order within each
// group. Membership is a pure field-equality test; no record lands in more
// than one group. Phase-wide unions are derived views, see PhaseUnion.
func Classify(records []TrialRecord) map[GroupKey]TrialGroup {
	groups := make(map[GroupKey]TrialGroup)
	for _, rec := range records {
		key := GroupKey{
			Phase:  rec.TrialType.Phase(),
			Layout: rec.TrialType.Layout(),
			Field:  normalizeField(rec),
		}
		groups[key] = append(groups[key], rec)
	}
	return groups
}

// PhaseUnion returns the ordered union of all records in one phase. It reads
// from the original record list so relative order across layouts is kept.
func PhaseUnion(records []TrialRecord, phase Phase) TrialGroup {
	var union TrialGroup
	for _, rec := range records {
		if rec.TrialType.Phase() == phase {
			union = append(union, rec)
		}
	}
	return union
}

// normalizeField maps the recorded visual field onto the group key space.
// The field is only meaningful for monocular and lateralized layouts;
// binocular trials always key on FieldNone regardless of what was recorded.
func normalizeField(rec TrialRecord) VisualField {
	if rec.TrialType.Layout() == Binocular {
		return FieldNone
	}
	switch rec.ActiveField {
	case FieldLeft, FieldRight:
		return rec.ActiveField
	}
	return FieldNone
}
