package deck

import "fmt"

func newDeck(id, name, description string, isDefault bool, prompts, responses []string) Deck {
	d := Deck{ID: id, Name: name, Description: description, IsDefault: isDefault}
	for i, text := range prompts {
		d.PromptCards = append(d.PromptCards, Card{
			ID: fmt.Sprintf("%s-p%02d", id, i+1), Text: text, DeckID: id, Kind: KindPrompt,
		})
	}
	for i, text := range responses {
		d.ResponseCards = append(d.ResponseCards, Card{
			ID: fmt.Sprintf("%s-r%02d", id, i+1), Text: text, DeckID: id, Kind: KindResponse,
		})
	}
	return d
}

// DefaultDecks seeds an empty catalog.
func DefaultDecks() []Deck {
	return []Deck{
		newDeck("basic", "Basic Deck", "General cards for all ages", true,
			[]string{
				"What makes me laugh uncontrollably?",
				"What do I always forget to do before leaving the house?",
				"What is the secret to a perfect relationship?",
				"The best gift I ever got was _____.",
				"My greatest hidden talent is _____.",
				"If I could change one thing about the world, it would be _____.",
				"What really makes me happy?",
				"If I were a superhero, my power would be _____.",
				"The worst idea for a first impression is _____.",
				"What does everyone at this table have in common?",
			},
			[]string{
				"Embarrassing myself in public.",
				"Laughing at the worst possible moment.",
				"Pretending to listen when someone is talking.",
				"Sprinting for the elevator at the last second.",
				"Answering old messages as if they were new.",
				"Wearing the same outfit for several days.",
				"Dancing when nobody is watching.",
				"Getting caught talking to myself.",
				"Forgetting the names of people I just met.",
				"Googling the answer to simple questions.",
				"Eating the last slice without asking.",
				"Refreshing the feed every five minutes.",
				"Stalking an ex on social media.",
				"Lying about reading a famous book.",
				"Promising to start the diet on Monday.",
				"Apologizing for insignificant things.",
				"Keeping forty browser tabs open.",
				"Setting alarms five minutes apart.",
				"Putting off important tasks until the last minute.",
				"Ordering takeout instead of cooking.",
				"Talking to pets as if they were people.",
				"Ignoring calls from unknown numbers.",
				"Staying up late for no reason.",
				"Taking hot showers in the middle of summer.",
				"Leaving the dishes for later.",
				"Having imaginary arguments in the shower.",
				"Making plans just to cancel them.",
				"Spending hours picking something to watch.",
				"Photographing food before eating it.",
				"Hiding trash in strange places.",
			}),
		newDeck("party", "Party Deck", "Cards for a late night", false,
			[]string{
				"What is the most embarrassing secret you have kept?",
				"What would be a terrible name for a cocktail?",
				"Nobody at the party expected _____.",
			},
			[]string{
				"Waking up with a mysterious tattoo.",
				"College stories my parents never heard.",
				"Texts sent to the wrong person.",
				"Badly crafted excuses to skip plans.",
				"A dead phone battery at a critical moment.",
				"Inventing stories to seem interesting.",
				"A secret collection of embarrassing memes.",
				"Questionable decisions after the third drink.",
				"Mixing up the names of important people.",
				"Karaoke nobody asked for.",
			}),
	}
}
