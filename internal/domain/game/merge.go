package game

// Merge reconciles an incoming snapshot against a known-good one.
//
// A stale incoming snapshot (older than known) is dropped entirely. Otherwise
// the incoming snapshot wins, except for fields that must never regress:
// a set display name, progression, the death counter and the log sequence.
// Neither argument is modified.
func Merge(known, incoming *State) *State {
	switch {
	case known == nil && incoming == nil:
		return nil
	case incoming == nil:
		return known.Clone()
	case known == nil:
		return incoming.Clone()
	}

	if incoming.LastSavedAt.Before(known.LastSavedAt) {
		out := known.Clone()
		out.LogSeq = max(known.LogSeq, incoming.LogSeq)
		return out
	}

	out := incoming.Clone()
	out.Initialized = known.Initialized
	if keepKnownName(known, out) {
		out.DisplayName = known.DisplayName
		out.DisplayNameSetAt = known.DisplayNameSetAt
	}
	if known.Progression.Ahead(out.Progression) {
		out.Progression = known.Progression
	}
	out.Deaths = max(out.Deaths, known.Deaths)
	out.LogSeq = max(out.LogSeq, known.LogSeq)
	return out
}

// keepKnownName is true when the known name is set and was not superseded by a later rename
func keepKnownName(known, incoming *State) bool {
	if known.DisplayName == "" {
		return false
	}
	if incoming.DisplayName == "" {
		return true
	}
	return known.DisplayNameSetAt.After(incoming.DisplayNameSetAt)
}
