package engine

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/DoyleJ11/cardroom-backend/internal/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	passwordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func smallDeck(prompts, responses int) deck.Deck {
	d := deck.Deck{ID: "t", Name: "test", IsDefault: true}
	for i := 0; i < prompts; i++ {
		d.PromptCards = append(d.PromptCards, deck.Card{ID: fmt.Sprintf("p%d", i), DeckID: "t", Kind: deck.KindPrompt})
	}
	for i := 0; i < responses; i++ {
		d.ResponseCards = append(d.ResponseCards, deck.Card{ID: fmt.Sprintf("r%d", i), DeckID: "t", Kind: deck.KindResponse})
	}
	return d
}

func mustApply(t *testing.T, r Room, cmd Command) ([]Event, Room) {
	t.Helper()
	events, next, err := Apply(r, cmd)
	require.NoError(t, err, "apply %s", cmd.Type)
	return events, next
}

// newTestRoom seats names in order; names[0] creates the room.
func newTestRoom(t *testing.T, p CreateParams, decks []deck.Deck, names ...string) Room {
	t.Helper()
	p.PlayerName = names[0]
	r, err := NewRoom("ROOM01", p, decks)
	require.NoError(t, err)
	for _, name := range names[1:] {
		_, r = mustApply(t, r, Command{Type: CmdJoinRoom, PlayerName: name})
	}
	return r
}

func startedRoom(t *testing.T, p CreateParams, names ...string) Room {
	t.Helper()
	r := newTestRoom(t, p, deck.DefaultDecks(), names...)
	_, r = mustApply(t, r, Command{Type: CmdStartGame})
	return r
}

func playerID(t *testing.T, r Room, name string) string {
	t.Helper()
	p, ok := r.PlayerByName(name)
	require.True(t, ok, "player %s not in room", name)
	return p.ID
}

func playFirstCard(t *testing.T, r Room, name string) Room {
	t.Helper()
	p, ok := r.PlayerByName(name)
	require.True(t, ok)
	_, r = mustApply(t, r, Command{Type: CmdPlayCard, PlayerID: p.ID, CardID: p.Hand[0].ID})
	return r
}

func judgeCount(r Room) int {
	n := 0
	for _, p := range r.Players {
		if p.IsJudge {
			n++
		}
	}
	return n
}

func TestNewRoom_CreatorIsJudgeAndWaiting(t *testing.T) {
	r, err := NewRoom("ROOM01", CreateParams{Name: "Test Room", PlayerName: "Alice"}, deck.DefaultDecks())
	require.NoError(t, err)

	require.Len(t, r.Players, 1)
	assert.Equal(t, "Alice", r.Players[0].Name)
	assert.True(t, r.Players[0].IsJudge)
	assert.Equal(t, StatusWaiting, r.Status)
	assert.Equal(t, "Test Room", r.Name)
	assert.Equal(t, DefaultMaxPlayers, r.MaxPlayers)
	assert.Equal(t, DefaultTargetScore, r.TargetScore)
	assert.Len(t, r.PromptQueue, 10)
	assert.Len(t, r.ResponseQueue, 30)
}

func TestNewRoom_DefaultName(t *testing.T) {
	r, err := NewRoom("ROOM01", CreateParams{PlayerName: "  Alice "}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice's room", r.Name)
	assert.Equal(t, "Alice", r.Players[0].Name)
}

func TestNewRoom_Validation(t *testing.T) {
	cases := []struct {
		name   string
		params CreateParams
	}{
		{name: "too few players", params: CreateParams{PlayerName: "A", MaxPlayers: 1}},
		{name: "too many players", params: CreateParams{PlayerName: "A", MaxPlayers: 21}},
		{name: "password flag without password", params: CreateParams{PlayerName: "A", HasPassword: true, Password: "  "}},
		{name: "missing creator", params: CreateParams{PlayerName: ""}},
		{name: "negative target", params: CreateParams{PlayerName: "A", TargetScore: -1}},
		{name: "negative round duration", params: CreateParams{PlayerName: "A", RoundDurationSeconds: -5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRoom("ROOM01", tc.params, nil)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestJoinRoom_CapacityError(t *testing.T) {
	r := newTestRoom(t, CreateParams{MaxPlayers: 5}, nil, "A", "B", "C", "D", "E")
	before := r.Clone()

	_, after, err := Apply(r, Command{Type: CmdJoinRoom, PlayerName: "F"})

	assert.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, before, after)
	assert.Equal(t, before, r)
}

func TestJoinRoom_Password(t *testing.T) {
	r := newTestRoom(t, CreateParams{HasPassword: true, Password: "s3cret"}, nil, "Alice")
	assert.NotEqual(t, "s3cret", r.Password, "password must be stored hashed")

	_, _, err := Apply(r, Command{Type: CmdJoinRoom, PlayerName: "Bob", Password: "nope"})
	assert.ErrorIs(t, err, ErrAuth)

	events, r := mustApply(t, r, Command{Type: CmdJoinRoom, PlayerName: "Bob", Password: "s3cret"})
	assert.True(t, ContainsEvent(events, EvtPlayerJoined))
	assert.Len(t, r.Players, 2)
	assert.False(t, r.Players[1].IsJudge)
}

func TestJoinRoom_ReconnectIsIdempotent(t *testing.T) {
	r := newTestRoom(t, CreateParams{MaxPlayers: 2}, nil, "Alice", "Bob")

	events, again, err := Apply(r, Command{Type: CmdJoinRoom, PlayerName: "Bob"})

	require.NoError(t, err, "a full room still lets a seated player back in")
	assert.Empty(t, events)
	assert.Equal(t, r, again)
}

func TestJoinRoom_MidGameGetsHand(t *testing.T) {
	r := startedRoom(t, CreateParams{}, "A", "B")
	_, r = mustApply(t, r, Command{Type: CmdJoinRoom, PlayerName: "C"})

	c, _ := r.PlayerByName("C")
	assert.Len(t, c.Hand, HandSize)
	assert.Equal(t, StatusPlaying, r.Status)
}

func TestStartGame_DealsHands(t *testing.T) {
	r := startedRoom(t, CreateParams{}, "A", "B", "C")

	for _, p := range r.Players {
		assert.Len(t, p.Hand, HandSize, "hand of %s", p.Name)
	}
	require.NotNil(t, r.CurrentPrompt)
	assert.Equal(t, StatusPlaying, r.Status)
	assert.Equal(t, 1, r.Round)
	assert.Equal(t, 1, judgeCount(r))
	assert.Len(t, r.ResponseQueue, 30-3*HandSize)
	assert.Len(t, r.PromptQueue, 9)
}

func TestStartGame_Preconditions(t *testing.T) {
	solo := newTestRoom(t, CreateParams{}, deck.DefaultDecks(), "A")
	_, _, err := Apply(solo, Command{Type: CmdStartGame})
	assert.ErrorIs(t, err, ErrPrecondition)

	running := startedRoom(t, CreateParams{}, "A", "B")
	_, _, err = Apply(running, Command{Type: CmdStartGame})
	assert.ErrorIs(t, err, ErrPrecondition)

	noPrompts := newTestRoom(t, CreateParams{}, []deck.Deck{smallDeck(0, 20)}, "A", "B")
	_, _, err = Apply(noPrompts, Command{Type: CmdStartGame})
	assert.ErrorIs(t, err, ErrPrecondition)
}

func TestStartGame_RestartResetsScores(t *testing.T) {
	r := startedRoom(t, CreateParams{TargetScore: 1}, "A", "B")
	r = playFirstCard(t, r, "B")
	_, r = mustApply(t, r, Command{Type: CmdJudgeCard, PlayerID: playerID(t, r, "A"), Index: 0})
	require.Equal(t, StatusFinished, r.Status)

	_, r = mustApply(t, r, Command{Type: CmdStartGame, Decks: deck.DefaultDecks()})

	for _, p := range r.Players {
		assert.Zero(t, p.Score)
		assert.Len(t, p.Hand, HandSize)
	}
	assert.Nil(t, r.Winner)
	assert.Equal(t, StatusPlaying, r.Status)
	assert.Len(t, r.PromptQueue, 9, "restart refills the prompt queue")
}

func TestSubmitCard_AllPlayedMovesToJudging(t *testing.T) {
	r := startedRoom(t, CreateParams{}, "A", "B", "C")

	r = playFirstCard(t, r, "B")
	assert.Equal(t, StatusPlaying, r.Status)

	b, _ := r.PlayerByName("B")
	assert.Len(t, b.Hand, HandSize-1)

	r = playFirstCard(t, r, "C")
	assert.Equal(t, StatusJudging, r.Status)
	assert.Len(t, r.PlayedCards, 2)
}

func TestSubmitCard_Rejections(t *testing.T) {
	r := startedRoom(t, CreateParams{}, "A", "B", "C")
	judge, _ := r.PlayerByName("A")
	bob, _ := r.PlayerByName("B")

	cases := []struct {
		name    string
		room    Room
		cmd     Command
		wantErr error
	}{
		{
			name:    "judge cannot play",
			room:    r,
			cmd:     Command{Type: CmdPlayCard, PlayerID: judge.ID, CardID: judge.Hand[0].ID},
			wantErr: ErrIllegalAction,
		},
		{
			name:    "card not in hand",
			room:    r,
			cmd:     Command{Type: CmdPlayCard, PlayerID: bob.ID, CardID: judge.Hand[0].ID},
			wantErr: ErrIllegalAction,
		},
		{
			name:    "duplicate submission",
			room:    playFirstCard(t, r, "B"),
			cmd:     Command{Type: CmdPlayCard, PlayerID: bob.ID, CardID: bob.Hand[1].ID},
			wantErr: ErrIllegalAction,
		},
		{
			name:    "unknown player",
			room:    r,
			cmd:     Command{Type: CmdPlayCard, PlayerID: "ghost", CardID: "x"},
			wantErr: ErrNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.room.Clone()
			_, after, err := Apply(tc.room, tc.cmd)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, before, after)
			assert.Equal(t, before, tc.room, "input room must not be mutated")
		})
	}
}

func TestSubmitCard_NoOpOutsidePlaying(t *testing.T) {
	r := newTestRoom(t, CreateParams{}, deck.DefaultDecks(), "A", "B")

	events, after, err := Apply(r, Command{Type: CmdPlayCard, PlayerID: r.Players[1].ID, CardID: "x"})

	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, r, after)
}

func TestJudgeCard_TargetReachedFinishes(t *testing.T) {
	r := startedRoom(t, CreateParams{TargetScore: 1}, "A", "B", "C")
	r = playFirstCard(t, r, "B")
	r = playFirstCard(t, r, "C")

	author := r.PlayedCards[0].PlayerID
	events, r := mustApply(t, r, Command{Type: CmdJudgeCard, PlayerID: playerID(t, r, "A"), Index: 0})

	assert.True(t, ContainsEvent(events, EvtGameFinished))
	assert.Equal(t, StatusFinished, r.Status)
	require.NotNil(t, r.Winner)
	assert.Equal(t, author, r.Winner.ID)
	assert.Equal(t, 1, r.Winner.Score)
}

func TestJudgeCard_RotatesJudgeAndReplenishes(t *testing.T) {
	r := startedRoom(t, CreateParams{}, "A", "B", "C")
	prevIdx := r.CurrentJudgeIndex
	r = playFirstCard(t, r, "B")
	r = playFirstCard(t, r, "C")

	author := r.PlayedCards[1].PlayerID
	_, r = mustApply(t, r, Command{Type: CmdJudgeCard, PlayerID: playerID(t, r, "A"), Index: 1})

	assert.Equal(t, StatusPlaying, r.Status)
	assert.Equal(t, 2, r.Round)
	assert.Empty(t, r.PlayedCards)
	assert.Equal(t, 1, judgeCount(r))
	assert.Equal(t, (prevIdx+1)%len(r.Players), r.CurrentJudgeIndex)
	assert.True(t, r.Players[r.CurrentJudgeIndex].IsJudge)

	for _, p := range r.Players {
		assert.Len(t, p.Hand, HandSize, "hand of %s", p.Name)
		want := 0
		if p.ID == author {
			want = 1
		}
		assert.Equal(t, want, p.Score, "score of %s", p.Name)
	}
}

func TestJudgeCard_NoOpAndRange(t *testing.T) {
	r := startedRoom(t, CreateParams{}, "A", "B", "C")
	r = playFirstCard(t, r, "B")
	r = playFirstCard(t, r, "C")

	events, same, err := Apply(r, Command{Type: CmdJudgeCard, PlayerID: playerID(t, r, "B"), Index: 0})
	require.NoError(t, err)
	assert.Empty(t, events, "only the judge may pick")
	assert.Equal(t, r, same)

	for _, idx := range []int{-1, 2} {
		_, same, err = Apply(r, Command{Type: CmdJudgeCard, PlayerID: playerID(t, r, "A"), Index: idx})
		assert.ErrorIs(t, err, ErrRange)
		assert.Equal(t, r, same)
	}
}

func TestJudgeCard_ResponseQueueExhaustionDegrades(t *testing.T) {
	// 3 players * 7 + 1 spare: only one card comes back after round one.
	r := newTestRoom(t, CreateParams{}, []deck.Deck{smallDeck(5, 3*HandSize+1)}, "A", "B", "C")
	_, r = mustApply(t, r, Command{Type: CmdStartGame})
	r = playFirstCard(t, r, "B")
	r = playFirstCard(t, r, "C")

	_, r = mustApply(t, r, Command{Type: CmdJudgeCard, PlayerID: playerID(t, r, "A"), Index: 0})

	total := 0
	for _, p := range r.Players {
		total += len(p.Hand)
	}
	assert.Equal(t, 3*HandSize-1, total)
	assert.Empty(t, r.ResponseQueue)
	assert.Equal(t, StatusPlaying, r.Status)
}

func TestJudgeCard_PromptExhaustionFinishes(t *testing.T) {
	r := newTestRoom(t, CreateParams{}, []deck.Deck{smallDeck(1, 30)}, "A", "B")
	_, r = mustApply(t, r, Command{Type: CmdStartGame})
	r = playFirstCard(t, r, "B")

	_, r = mustApply(t, r, Command{Type: CmdJudgeCard, PlayerID: playerID(t, r, "A"), Index: 0})

	assert.Equal(t, StatusFinished, r.Status)
	require.NotNil(t, r.Winner)
	assert.Equal(t, "B", r.Winner.Name)
}

func TestFinishGame_TiePicksFirstInOrder(t *testing.T) {
	r := newTestRoom(t, CreateParams{}, nil, "A", "B", "C")
	r.Players[1].Score = 3
	r.Players[2].Score = 3

	finishGame(&r)

	assert.Equal(t, "B", r.Winner.Name)
}

func TestLeaveRoom_JudgeDutyMovesToFirstSeat(t *testing.T) {
	r := startedRoom(t, CreateParams{}, "A", "B", "C", "D")
	r.Players[0].IsJudge, r.Players[2].IsJudge = false, true
	r.CurrentJudgeIndex = 2
	r = playFirstCard(t, r, "A")
	r = playFirstCard(t, r, "B")
	r = playFirstCard(t, r, "D")
	require.Equal(t, StatusJudging, r.Status)

	_, r = mustApply(t, r, Command{Type: CmdLeaveRoom, PlayerID: playerID(t, r, "C")})

	assert.Equal(t, 0, r.CurrentJudgeIndex)
	assert.True(t, r.Players[0].IsJudge)
	assert.Equal(t, 1, judgeCount(r))
	assert.Len(t, r.Players[0].Hand, HandSize, "the new judge takes their card back")
	assert.Len(t, r.PlayedCards, 2)
	assert.False(t, r.HasPlayed(r.Players[0].ID))
	assert.Equal(t, StatusJudging, r.Status)
}

func TestLeaveRoom_NewJudgeTakesBackPlayedCard(t *testing.T) {
	r := startedRoom(t, CreateParams{}, "A", "B", "C")
	// Make C the judge so B (index 1) is not first.
	r.Players[0].IsJudge, r.Players[2].IsJudge = false, true
	r.CurrentJudgeIndex = 2
	r = playFirstCard(t, r, "A")
	require.Equal(t, StatusPlaying, r.Status)

	_, r = mustApply(t, r, Command{Type: CmdLeaveRoom, PlayerID: playerID(t, r, "C")})

	a, _ := r.PlayerByName("A")
	assert.True(t, a.IsJudge)
	assert.Len(t, a.Hand, HandSize, "A's played card returns to hand")
	assert.Empty(t, r.PlayedCards)
	assert.Equal(t, StatusPlaying, r.Status)
}

func TestLeaveRoom_KeepsJudgeIndexPointingAtJudge(t *testing.T) {
	r := startedRoom(t, CreateParams{}, "A", "B", "C")
	r.Players[0].IsJudge, r.Players[2].IsJudge = false, true
	r.CurrentJudgeIndex = 2

	_, r = mustApply(t, r, Command{Type: CmdLeaveRoom, PlayerID: playerID(t, r, "A")})

	judge, ok := r.Judge()
	require.True(t, ok)
	assert.Equal(t, "C", judge.Name)
	assert.Equal(t, 1, r.CurrentJudgeIndex)
}

func TestLeaveRoom_LastNonJudgeCompletesRound(t *testing.T) {
	r := startedRoom(t, CreateParams{}, "A", "B", "C")
	r = playFirstCard(t, r, "B")

	events, r := mustApply(t, r, Command{Type: CmdLeaveRoom, PlayerID: playerID(t, r, "C")})

	assert.True(t, ContainsEvent(events, EvtJudgingStarted))
	assert.Equal(t, StatusJudging, r.Status)
	assert.Len(t, r.PlayedCards, 1)
}

func TestLeaveRoom_TooFewPlayersPauses(t *testing.T) {
	r := startedRoom(t, CreateParams{}, "A", "B")

	events, r := mustApply(t, r, Command{Type: CmdLeaveRoom, PlayerID: playerID(t, r, "B")})

	assert.True(t, ContainsEvent(events, EvtGamePaused))
	assert.Equal(t, StatusWaiting, r.Status)
	assert.True(t, r.Players[0].IsJudge)
}

func TestLeaveRoom_EmptyRoom(t *testing.T) {
	r := newTestRoom(t, CreateParams{}, nil, "A")

	events, r := mustApply(t, r, Command{Type: CmdLeaveRoom, PlayerID: r.Players[0].ID})

	assert.True(t, ContainsEvent(events, EvtRoomEmptied))
	assert.Empty(t, r.Players)

	_, _, err := Apply(r, Command{Type: CmdLeaveRoom, PlayerID: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScoresNeverDecreaseDuringGame(t *testing.T) {
	r := startedRoom(t, CreateParams{TargetScore: 50}, "A", "B", "C")
	prev := map[string]int{}

	for round := 0; round < 6 && r.Status == StatusPlaying; round++ {
		judge, _ := r.Judge()
		for _, p := range r.Players {
			if p.ID != judge.ID {
				r = playFirstCard(t, r, p.Name)
			}
		}
		require.Equal(t, StatusJudging, r.Status)
		_, r = mustApply(t, r, Command{Type: CmdJudgeCard, PlayerID: judge.ID, Index: 0})

		require.Equal(t, 1, judgeCount(r))
		for _, p := range r.Players {
			assert.GreaterOrEqual(t, p.Score, prev[p.ID])
			prev[p.ID] = p.Score
		}
	}
}

func TestApply_UnsupportedCommand(t *testing.T) {
	_, _, err := Apply(Room{}, Command{Type: "Dance"})
	assert.True(t, errors.Is(err, ErrUnsupportedCommand))
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestKindOf(t *testing.T) {
	cases := map[error]Kind{
		fmt.Errorf("%w: x", ErrNotFound):      KindNotFound,
		fmt.Errorf("%w: x", ErrAuth):          KindAuth,
		fmt.Errorf("%w: x", ErrCapacity):      KindCapacity,
		fmt.Errorf("%w: x", ErrPrecondition):  KindPrecondition,
		fmt.Errorf("%w: x", ErrIllegalAction): KindIllegalAction,
		fmt.Errorf("%w: x", ErrRange):         KindRange,
		errors.New("disk on fire"):            KindInternal,
	}
	for err, want := range cases {
		assert.Equal(t, want, KindOf(err), err.Error())
	}
}

func TestRandomHandCard(t *testing.T) {
	r := startedRoom(t, CreateParams{}, "A", "B")
	b, _ := r.PlayerByName("B")

	c, ok := RandomHandCard(r, b.ID)
	require.True(t, ok)
	assert.Contains(t, b.Hand, c)

	_, ok = RandomHandCard(r, "ghost")
	assert.False(t, ok)
}

func TestPending(t *testing.T) {
	r := startedRoom(t, CreateParams{}, "A", "B", "C")
	assert.Len(t, r.Pending(), 2)

	r = playFirstCard(t, r, "B")
	pending := r.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "C", pending[0].Name)
}

func TestSubmitCard_EmptyHandsDoNotBlockJudging(t *testing.T) {
	r := newTestRoom(t, CreateParams{}, deck.NewCatalog(deck.DefaultDecks()...).Defaults(), "A", "B", "C", "D", "E", "F")
	_, r = mustApply(t, r, Command{Type: CmdStartGame})
	f, _ := r.PlayerByName("F")
	require.Empty(t, f.Hand, "the default response pool runs out before the sixth seat")

	for _, name := range []string{"B", "C", "D", "E"} {
		if p, _ := r.PlayerByName(name); len(p.Hand) > 0 {
			r = playFirstCard(t, r, name)
		}
	}

	assert.Equal(t, StatusJudging, r.Status)
	assert.NotEmpty(t, r.PlayedCards)
}

func TestStartGame_NobodyCanPlayFinishes(t *testing.T) {
	// The judge takes the only hand.
	r := newTestRoom(t, CreateParams{}, []deck.Deck{smallDeck(5, HandSize)}, "A", "B", "C")

	events, r := mustApply(t, r, Command{Type: CmdStartGame})

	assert.True(t, ContainsEvent(events, EvtRoundStarted))
	assert.True(t, ContainsEvent(events, EvtGameFinished))
	assert.Equal(t, StatusFinished, r.Status)
	require.NotNil(t, r.Winner)
}

func TestLeaveRoom_RemainingEmptyHandsCompleteRound(t *testing.T) {
	// Hands: A 7, B 7, C 2, D 0.
	r := newTestRoom(t, CreateParams{}, []deck.Deck{smallDeck(5, 2*HandSize+2)}, "A", "B", "C", "D")
	_, r = mustApply(t, r, Command{Type: CmdStartGame})
	r = playFirstCard(t, r, "B")
	require.Equal(t, StatusPlaying, r.Status)

	events, r := mustApply(t, r, Command{Type: CmdLeaveRoom, PlayerID: playerID(t, r, "C")})

	assert.True(t, ContainsEvent(events, EvtJudgingStarted))
	assert.Equal(t, StatusJudging, r.Status)
	assert.Len(t, r.PlayedCards, 1)
}

func TestLeaveRoom_LastCardHolderLeavingFinishes(t *testing.T) {
	// Hands: A 7, B 7, C 0, D 0.
	r := newTestRoom(t, CreateParams{}, []deck.Deck{smallDeck(5, 2*HandSize)}, "A", "B", "C", "D")
	_, r = mustApply(t, r, Command{Type: CmdStartGame})
	require.Equal(t, StatusPlaying, r.Status)

	events, r := mustApply(t, r, Command{Type: CmdLeaveRoom, PlayerID: playerID(t, r, "B")})

	assert.True(t, ContainsEvent(events, EvtGameFinished))
	assert.Equal(t, StatusFinished, r.Status)
}

func TestPending_SkipsEmptyHands(t *testing.T) {
	r := newTestRoom(t, CreateParams{}, []deck.Deck{smallDeck(5, 2*HandSize+2)}, "A", "B", "C", "D")
	_, r = mustApply(t, r, Command{Type: CmdStartGame})

	var names []string
	for _, p := range r.Pending() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"B", "C"}, names)
}
