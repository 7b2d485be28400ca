package game

// UseHint reveals every hidden card for HintDuration, once per round.
// The reveal is not a selection: the provisional slot, move counter and
// lock are left alone.
func (r *Round) UseHint() bool {
	if r.discarded || r.paused || r.hintUsed || r.Over() {
		return false
	}
	r.hintUsed = true
	r.hinting = true
	r.hinted = r.hinted[:0]
	for i := range r.cards {
		if r.cards[i].Face == Hidden {
			r.hinted = append(r.hinted, i)
			r.setFace(i, Revealed)
		}
	}
	r.emit(Event{Kind: HintStarted})
	r.group.After(HintDuration, r.endHint)
	return true
}

// endHint hides the cards the hint turned over.
func (r *Round) endHint() {
	if !r.hinting {
		return
	}
	r.hinting = false
	for _, i := range r.hinted {
		if r.cards[i].Face == Revealed {
			r.setFace(i, Hidden)
		}
	}
	r.hinted = nil
	r.emit(Event{Kind: HintEnded})
}
