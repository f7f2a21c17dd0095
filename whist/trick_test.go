package whist

import (
	"testing"

	"github.com/OColmignoli/colmignoli-whist/card"
)

func TestResolveTrickTrumpBeatsAceOffSuit(t *testing.T) {
	// Trump spades. P1 leads 7♥, P2 plays A♣, P3 plays 2♠: the lone
	// trump takes it regardless of rank.
	trick := []TrickPlay{
		{PlayerID: "p1", Card: card.MustParse("7h")},
		{PlayerID: "p2", Card: card.MustParse("Ac")},
		{PlayerID: "p3", Card: card.MustParse("2s")},
	}
	if winner := resolveTrick(trick, card.MustParse("5s"), false, card.Hearts); winner != "p3" {
		t.Fatalf("winner = %s, want p3", winner)
	}
}

func TestResolveTrickNoTrumpLedSuitWins(t *testing.T) {
	// No-trump stage, hearts led: K♥ beats Q♥, and the off-suit A♠
	// can never overtake.
	trick := []TrickPlay{
		{PlayerID: "p1", Card: card.MustParse("Kh")},
		{PlayerID: "p2", Card: card.MustParse("As")},
		{PlayerID: "p3", Card: card.MustParse("Qh")},
	}
	if winner := resolveTrick(trick, card.CardInvalid, true, card.Hearts); winner != "p1" {
		t.Fatalf("winner = %s, want p1", winner)
	}
}

func TestResolveTrickBothTrumpComparesPower(t *testing.T) {
	trick := []TrickPlay{
		{PlayerID: "p1", Card: card.MustParse("Jd")},
		{PlayerID: "p2", Card: card.MustParse("3s")},
		{PlayerID: "p3", Card: card.MustParse("Ks")},
	}
	if winner := resolveTrick(trick, card.MustParse("9s"), false, card.Diamonds); winner != "p3" {
		t.Fatalf("winner = %s, want p3", winner)
	}
}

func TestResolveTrickOffLedOffTrumpNeverOvertakes(t *testing.T) {
	// Clubs led. The A♦ is neither led suit nor trump: the low led
	// club keeps the trick.
	trick := []TrickPlay{
		{PlayerID: "p1", Card: card.MustParse("4c")},
		{PlayerID: "p2", Card: card.MustParse("Ad")},
	}
	if winner := resolveTrick(trick, card.MustParse("2h"), false, card.Clubs); winner != "p1" {
		t.Fatalf("winner = %s, want p1", winner)
	}
}

func TestResolveTrickLedSuitCannotReclaimFromTrump(t *testing.T) {
	// Hearts led, spades trump. P2 ruffs with 2♠; P3's A♥ is only the
	// led suit and stays under the trump.
	trick := []TrickPlay{
		{PlayerID: "p1", Card: card.MustParse("Kh")},
		{PlayerID: "p2", Card: card.MustParse("2s")},
		{PlayerID: "p3", Card: card.MustParse("Ah")},
	}
	if winner := resolveTrick(trick, card.MustParse("9s"), false, card.Hearts); winner != "p2" {
		t.Fatalf("winner = %s, want p2", winner)
	}
}

func TestResolveTrickKeepsLedSuitWhenLeaderDropped(t *testing.T) {
	// The heart leader's entry was removed mid-trick: the surviving
	// first card is an off-suit discard, but hearts is still the led
	// suit and c's ace takes the trick.
	trick := []TrickPlay{
		{PlayerID: "b", Card: card.MustParse("2s")},
		{PlayerID: "c", Card: card.MustParse("Ah")},
		{PlayerID: "d", Card: card.MustParse("3h")},
	}
	if winner := resolveTrick(trick, card.MustParse("5d"), false, card.Hearts); winner != "c" {
		t.Fatalf("winner = %s, want c", winner)
	}
}

func TestResolveTrickDeterministic(t *testing.T) {
	trick := []TrickPlay{
		{PlayerID: "p1", Card: card.MustParse("10d")},
		{PlayerID: "p2", Card: card.MustParse("Qd")},
		{PlayerID: "p3", Card: card.MustParse("2h")},
		{PlayerID: "p4", Card: card.MustParse("Ad")},
	}
	first := resolveTrick(trick, card.MustParse("8h"), false, card.Diamonds)
	for i := 0; i < 100; i++ {
		if got := resolveTrick(trick, card.MustParse("8h"), false, card.Diamonds); got != first {
			t.Fatalf("replay %d: winner %s != %s", i, got, first)
		}
	}
	if first != "p3" {
		t.Fatalf("winner = %s, want p3 (only trump played)", first)
	}
}
