package utils

import (
	"math/rand"
	"strings"
)

// Card represents a playing card.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func NewCard(rank, suit string) Card {
	return Card{Rank: rank, Suit: suit}
}

func (c Card) String() string {
	return c.Rank + c.Suit
}

// GetValue returns the numeric value of the card for a specific game.
func (c Card) GetValue(game string) int {
	switch game {
	case "poker":
		return PokerRanks[c.Rank]
	case "baccarat":
		return c.baccaratValue()
	default:
		return CardRanks[c.Rank]
	}
}

// baccaratValue follows baccarat counting: aces are 1, tens and faces are 0.
func (c Card) baccaratValue() int {
	switch c.Rank {
	case "A":
		return 1
	case "10", "J", "Q", "K":
		return 0
	default:
		return CardRanks[c.Rank]
	}
}

func (c Card) IsAce() bool {
	return c.Rank == "A"
}

// Deck represents one or more shuffled 52-card decks.
type Deck struct {
	Cards      []Card
	NumDecks   int
	Game       string
	DealtCards int
	rng        *rand.Rand
}

var deckRanks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// NewDeck builds and shuffles numDecks standard decks. The rand source is
// injected so games and tests control determinism.
func NewDeck(numDecks int, game string, rng *rand.Rand) *Deck {
	deck := &Deck{
		Cards:    make([]Card, 0, numDecks*52),
		NumDecks: numDecks,
		Game:     game,
		rng:      rng,
	}

	for d := 0; d < numDecks; d++ {
		for _, suit := range CardSuits {
			for _, rank := range deckRanks {
				deck.Cards = append(deck.Cards, NewCard(rank, suit))
			}
		}
	}

	deck.Shuffle()
	return deck
}

func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
	d.DealtCards = 0
}

// Deal deals one card, reshuffling if the shoe is exhausted.
func (d *Deck) Deal() Card {
	if d.DealtCards >= len(d.Cards) {
		d.Shuffle()
	}
	card := d.Cards[d.DealtCards]
	d.DealtCards++
	return card
}

// DealMultiple deals n cards.
func (d *Deck) DealMultiple(n int) []Card {
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, d.Deal())
	}
	return cards
}

func (d *Deck) CardsRemaining() int {
	return len(d.Cards) - d.DealtCards
}

// Hand represents a hand of playing cards for a specific game.
type Hand struct {
	Cards []Card
	Game  string
}

func NewHand(game string) *Hand {
	return &Hand{Cards: make([]Card, 0, 8), Game: game}
}

func (h *Hand) AddCard(card Card) {
	h.Cards = append(h.Cards, card)
}

// GetValue returns the total value of the hand under the game's counting
// rules.
func (h *Hand) GetValue() int {
	switch h.Game {
	case "blackjack":
		return h.blackjackValue()
	case "baccarat":
		return h.baccaratValue()
	default:
		total := 0
		for _, card := range h.Cards {
			total += card.GetValue(h.Game)
		}
		return total
	}
}

// blackjackValue counts aces as 11, then demotes them one at a time while the
// total busts.
func (h *Hand) blackjackValue() int {
	total := 0
	aces := 0

	for _, card := range h.Cards {
		if card.IsAce() {
			aces++
		}
		total += card.GetValue("blackjack")
	}

	for aces > 0 && total > 21 {
		total -= 10
		aces--
	}
	return total
}

func (h *Hand) baccaratValue() int {
	total := 0
	for _, card := range h.Cards {
		total += card.baccaratValue()
	}
	return total % 10
}

func (h *Hand) String() string {
	parts := make([]string, len(h.Cards))
	for i, card := range h.Cards {
		parts[i] = card.String()
	}
	return strings.Join(parts, " ")
}

// IsBlackjack reports a natural 21 on the first two cards.
func (h *Hand) IsBlackjack() bool {
	return h.Game == "blackjack" && len(h.Cards) == 2 && h.GetValue() == 21
}

func (h *Hand) IsBusted() bool {
	return h.Game == "blackjack" && h.GetValue() > 21
}

func (h *Hand) Count() int {
	return len(h.Cards)
}
