package engine

import "slices"

// assignJudge hands judge duty to players[idx]. A card the new judge already
// put on the table this round goes back to their hand.
func assignJudge(r *Room, idx int) {
	r.CurrentJudgeIndex = idx
	for k := range r.Players {
		r.Players[k].IsJudge = k == idx
	}

	judge := &r.Players[idx]
	if j := slices.IndexFunc(r.PlayedCards, playedBy(judge.ID)); j >= 0 {
		judge.Hand = append(judge.Hand, r.PlayedCards[j].Card)
		r.PlayedCards = slices.Delete(r.PlayedCards, j, j+1)
	}
}

// advanceJudge rotates judge duty one seat along the player order.
func advanceJudge(r *Room) {
	assignJudge(r, (r.CurrentJudgeIndex+1)%len(r.Players))
}
